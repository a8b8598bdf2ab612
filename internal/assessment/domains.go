package assessment

import "disha/internal/api"

// DefaultDomains is the built-in career taxonomy, used when the domains
// endpoint is unreachable. Taxonomies are configuration data: a transport
// failure here degrades the form options, nothing else.
func DefaultDomains() map[string]api.Domain {
	return map[string]api.Domain{
		"engineering": {
			Name:   "Engineering & Technology",
			Fields: []string{"Computer Science", "Electronics", "Mechanical", "Civil", "Chemical", "Aerospace", "Biotechnology"},
		},
		"medical": {
			Name:   "Medical & Healthcare",
			Fields: []string{"MBBS", "BDS", "Nursing", "Pharmacy", "Physiotherapy", "Veterinary", "Public Health"},
		},
		"commerce": {
			Name:   "Commerce & Finance",
			Fields: []string{"Chartered Accountancy", "Company Secretary", "Banking", "Investment Banking", "Financial Analysis", "Actuarial Science"},
		},
		"arts": {
			Name:   "Arts & Humanities",
			Fields: []string{"Psychology", "Journalism", "Literature", "History", "Political Science", "Sociology", "Fine Arts"},
		},
		"science": {
			Name:   "Pure Sciences",
			Fields: []string{"Physics", "Chemistry", "Mathematics", "Biology", "Environmental Science", "Research"},
		},
		"government": {
			Name:   "Government & Services",
			Fields: []string{"IAS", "IPS", "IFS", "Defense", "Teaching", "Banking", "Railways"},
		},
	}
}
