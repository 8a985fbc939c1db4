package devapi

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/jeebeez/another-signal/pkg/core"
)

// ErrBlankQuestion is returned for a magic column request without a question.
var ErrBlankQuestion = errors.New("question is required")

// Generator answers a magic column question for one account.
type Generator interface {
	Answer(question string, account core.Account) core.Generated
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(question string, account core.Account) core.Generated

// Answer calls f.
func (f GeneratorFunc) Answer(question string, account core.Account) core.Generated {
	return f(question, account)
}

// KeywordGenerator answers from the account attributes a question mentions. The
// same question and account always get the same answer.
type KeywordGenerator struct{}

var (
	fundingWords = []string{"fund", "raise", "raised", "round", "investor"}
	sizeWords    = []string{"employee", "headcount", "size", "large", "big", "people"}
	hiringWords  = []string{"hiring", "hire", "recruit", "job", "role"}
)

// Answer implements Generator.
func (KeywordGenerator) Answer(question string, a core.Account) core.Generated {
	q := strings.ToLower(question)
	switch {
	case mentions(q, fundingWords):
		if a.FundingStage == "" {
			return core.Generated{Answer: "Unknown", Reasoning: "No funding stage on record."}
		}
		return core.Generated{
			Answer:    a.FundingStage,
			Reasoning: fmt.Sprintf("%s is at the %s stage.", a.Name, a.FundingStage),
		}
	case mentions(q, sizeWords):
		if a.Employees == 0 {
			return core.Generated{Answer: "Unknown", Reasoning: "No employee count on record."}
		}
		return core.Generated{
			Answer:    sizeBand(a.Employees),
			Reasoning: fmt.Sprintf("%s has %d employees.", a.Name, a.Employees),
		}
	case mentions(q, hiringWords):
		if mentions(strings.ToLower(a.SignalDescription), hiringWords) {
			return core.Generated{Answer: "Yes", Reasoning: "Signal: " + a.SignalDescription}
		}
		return core.Generated{Answer: "No", Reasoning: "No hiring signal found."}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(a.Name + "\x00" + question))
	if h.Sum32()%2 == 0 {
		return core.Generated{Answer: "Yes"}
	}
	return core.Generated{Answer: "No"}
}

func mentions(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func sizeBand(n int) string {
	switch {
	case n < 50:
		return "1-49"
	case n < 250:
		return "50-249"
	case n < 1000:
		return "250-999"
	default:
		return "1000+"
	}
}
