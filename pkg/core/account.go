package core

import "strconv"

// NoReasoning is shown when a generated answer carries no reasoning.
const NoReasoning = "No reasoning available"

// Account is one row of the accounts dataset.
// Name is the business key: unique within a collection and used as navigation identity.
type Account struct {
	Name              string        `json:"name" yaml:"name"`
	Domain            string        `json:"domain" yaml:"domain"`
	LinkedinURL       string        `json:"linkedinUrl" yaml:"linkedinUrl"`
	SignalDescription string        `json:"signalDescription" yaml:"signalDescription"`
	SignalLink        string        `json:"signalLink" yaml:"signalLink"`
	Employees         int           `json:"employees" yaml:"employees"`
	FundingStage      string        `json:"fundingStage" yaml:"fundingStage"`
	MagicColumns      []MagicColumn `json:"magicColumns,omitempty" yaml:"magicColumns,omitempty"`
}

// MagicColumn is one user-requested derived fact attached to an account.
// Question is the de-facto column identifier: grouping is by exact string equality.
type MagicColumn struct {
	Question  string    `json:"question" yaml:"question"`
	Generated Generated `json:"generated" yaml:"generated"`
}

// Generated holds the answer produced for a magic column question.
type Generated struct {
	Answer    string `json:"answer" yaml:"answer"`
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// ReasoningOrDefault returns the reasoning, falling back to NoReasoning.
func (g Generated) ReasoningOrDefault() string {
	if g.Reasoning == "" {
		return NoReasoning
	}
	return g.Reasoning
}

// MagicColumn returns the entry whose question equals question exactly.
func (a Account) MagicColumn(question string) (MagicColumn, bool) {
	for _, mc := range a.MagicColumns {
		if mc.Question == question {
			return mc, true
		}
	}
	return MagicColumn{}, false
}

// SearchFields returns the string form of every scalar attribute that has a value.
// Empty strings and a zero employee count carry no value and are skipped.
func (a Account) SearchFields() []string {
	fields := make([]string, 0, 7)
	for _, v := range []string{a.Name, a.Domain, a.LinkedinURL, a.SignalDescription, a.SignalLink} {
		if v != "" {
			fields = append(fields, v)
		}
	}
	if a.Employees != 0 {
		fields = append(fields, strconv.Itoa(a.Employees))
	}
	if a.FundingStage != "" {
		fields = append(fields, a.FundingStage)
	}
	return fields
}
