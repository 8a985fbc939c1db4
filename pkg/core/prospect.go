package core

// Prospect is one contact row in an account-scoped dataset.
type Prospect struct {
	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role" yaml:"role"`
	Company     string `json:"company" yaml:"company"`
	Location    string `json:"location" yaml:"location"`
	LinkedinURL string `json:"linkedinUrl" yaml:"linkedinUrl"`
	Email       string `json:"email" yaml:"email"`
}

// SearchFields returns every non-empty attribute of the prospect.
func (p Prospect) SearchFields() []string {
	fields := make([]string, 0, 6)
	for _, v := range []string{p.Name, p.Role, p.Company, p.Location, p.LinkedinURL, p.Email} {
		if v != "" {
			fields = append(fields, v)
		}
	}
	return fields
}
