// Package e2e provides end-to-end tests against the HTTP API.
package e2e

// Scenario is one clinical narrative with the code expected to rank first.
type Scenario struct {
	Name         string
	Text         string
	ExpectedCode string
	Category     string
}

// BuildScenarios returns the clinical test corpus. Each narrative is written
// the way a clinician might chart it, including abbreviations the normalizer
// must expand.
func BuildScenarios() []Scenario {
	return []Scenario{
		{
			Name:         "type 2 diabetes",
			Text:         "patient with type 2 diabetes mellitus and elevated blood sugar",
			ExpectedCode: "E11.9",
			Category:     "Endocrine",
		},
		{
			Name:         "hypertension abbreviated",
			Text:         "58yo male with poorly controlled htn",
			ExpectedCode: "I10",
			Category:     "Cardiovascular",
		},
		{
			Name:         "myocardial infarction",
			Text:         "acute myocardial infarction with chest pain radiating to left arm",
			ExpectedCode: "I21.9",
			Category:     "Cardiovascular",
		},
		{
			Name:         "asthma",
			Text:         "asthma exacerbation with wheezing and shortness of breath",
			ExpectedCode: "J45.9",
			Category:     "Respiratory",
		},
		{
			Name:         "copd abbreviated",
			Text:         "copd with acute exacerbation",
			ExpectedCode: "J44.1",
			Category:     "Respiratory",
		},
		{
			Name:         "gerd abbreviated",
			Text:         "gerd with frequent heartburn and acid reflux",
			ExpectedCode: "K21.9",
			Category:     "Gastrointestinal",
		},
		{
			Name:         "depression",
			Text:         "major depressive disorder with low mood and anhedonia",
			ExpectedCode: "F32.9",
			Category:     "Mental Health",
		},
		{
			Name:         "migraine",
			Text:         "intractable migraine headache with photophobia",
			ExpectedCode: "G43.909",
			Category:     "Neurological",
		},
	}
}
