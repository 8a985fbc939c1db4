package columns

import (
	"strings"

	"github.com/jeebeez/another-signal/pkg/core"
)

// MagicPrefix namespaces magic column IDs so a question never collides with an
// attribute key.
const MagicPrefix = "magic:"

// Base returns the fixed account columns in display order.
func Base() Set[core.Account] {
	return Set[core.Account]{
		Text("name", "Name", func(a core.Account) string { return a.Name }),
		Text("domain", "Domain", func(a core.Account) string { return a.Domain }),
		Text("linkedinUrl", "LinkedIn", func(a core.Account) string { return a.LinkedinURL }),
		Text("signalDescription", "Signal", func(a core.Account) string { return a.SignalDescription }),
		Text("signalLink", "Signal Link", func(a core.Account) string { return a.SignalLink }),
		Number("employees", "Employees", func(a core.Account) int { return a.Employees }),
		Text("fundingStage", "Funding Stage", func(a core.Account) string { return a.FundingStage }),
	}
}

// Questions returns the distinct magic column questions attached to accounts,
// in first-seen order. Questions are equal only when their text is identical.
func Questions(accounts []core.Account) []string {
	seen := make(map[string]struct{})
	var questions []string
	for _, a := range accounts {
		for _, mc := range a.MagicColumns {
			if _, ok := seen[mc.Question]; ok {
				continue
			}
			seen[mc.Question] = struct{}{}
			questions = append(questions, mc.Question)
		}
	}
	return questions
}

// MagicID returns the column ID of question.
func MagicID(question string) string {
	return MagicPrefix + question
}

// IsMagicID reports whether id names a magic column.
func IsMagicID(id string) bool {
	return strings.HasPrefix(id, MagicPrefix)
}

// Magic declares the column for one magic question. Rows without an answer
// render nothing, unlike the placeholder of empty static attributes.
func Magic(question string) Column[core.Account] {
	answer := func(a core.Account) string {
		mc, ok := a.MagicColumn(question)
		if !ok {
			return ""
		}
		return mc.Generated.Answer
	}
	return Column[core.Account]{
		ID:     MagicID(question),
		Header: question,
		Kind:   KindMagic,
		Key:    question,
		render: func(a core.Account) Cell {
			mc, ok := a.MagicColumn(question)
			if !ok {
				return Cell{}
			}
			return Cell{
				Text:    mc.Generated.Answer,
				Detail:  mc.Generated.ReasoningOrDefault(),
				Present: true,
			}
		},
		compare: func(a, b core.Account) int {
			return strings.Compare(answer(a), answer(b))
		},
	}
}

// Accounts resolves the column set for the given rows: base columns followed by
// one magic column per distinct question.
func Accounts(rows []core.Account) Set[core.Account] {
	set := Base()
	for _, q := range Questions(rows) {
		set = append(set, Magic(q))
	}
	return set
}

// Prospects returns the prospect columns in display order.
func Prospects() Set[core.Prospect] {
	return Set[core.Prospect]{
		Text("name", "Name", func(p core.Prospect) string { return p.Name }),
		Text("role", "Role", func(p core.Prospect) string { return p.Role }),
		Text("company", "Company", func(p core.Prospect) string { return p.Company }),
		Text("location", "Location", func(p core.Prospect) string { return p.Location }),
		Text("linkedinUrl", "LinkedIn", func(p core.Prospect) string { return p.LinkedinURL }),
		Text("email", "Email", func(p core.Prospect) string { return p.Email }),
	}
}
