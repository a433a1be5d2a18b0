package catalog

// defaultEntries returns the built-in ICD-10 reference table.
// A production deployment would load a complete code set via Load; this table
// covers the common primary-care codes the engine ships with.
func defaultEntries() []Entry {
	return []Entry{
		// Cardiovascular
		{
			Code:        "I25.10",
			Description: "Atherosclerotic heart disease of native coronary artery without angina pectoris",
			Category:    "Cardiovascular",
			Keywords:    []string{"atherosclerotic heart disease", "coronary artery disease", "CAD", "heart disease", "coronary atherosclerosis"},
		},
		{
			Code:        "I25.9",
			Description: "Chronic ischemic heart disease, unspecified",
			Category:    "Cardiovascular",
			Keywords:    []string{"ischemic heart disease", "chronic ischemia", "heart ischemia", "coronary ischemia"},
		},
		{
			Code:        "I10",
			Description: "Essential (primary) hypertension",
			Category:    "Cardiovascular",
			Keywords:    []string{"hypertension", "high blood pressure", "elevated blood pressure", "HTN", "primary hypertension"},
		},
		{
			Code:        "I21.9",
			Description: "Acute myocardial infarction, unspecified",
			Category:    "Cardiovascular",
			Keywords:    []string{"myocardial infarction", "heart attack", "MI", "acute MI", "cardiac infarction"},
		},
		{
			Code:        "I50.9",
			Description: "Heart failure, unspecified",
			Category:    "Cardiovascular",
			Keywords:    []string{"heart failure", "cardiac failure", "congestive heart failure", "CHF", "heart insufficiency"},
		},

		// Respiratory
		{
			Code:        "J44.1",
			Description: "Chronic obstructive pulmonary disease with acute exacerbation",
			Category:    "Respiratory",
			Keywords:    []string{"COPD", "chronic obstructive pulmonary disease", "emphysema", "chronic bronchitis", "obstructive lung disease"},
		},
		{
			Code:        "J45.9",
			Description: "Asthma, unspecified",
			Category:    "Respiratory",
			Keywords:    []string{"asthma", "bronchial asthma", "allergic asthma", "asthmatic", "bronchospasm"},
		},
		{
			Code:        "J18.9",
			Description: "Pneumonia, unspecified organism",
			Category:    "Respiratory",
			Keywords:    []string{"pneumonia", "lung infection", "pulmonary infection", "pneumonitis", "chest infection"},
		},
		{
			Code:        "J20.9",
			Description: "Acute bronchitis, unspecified",
			Category:    "Respiratory",
			Keywords:    []string{"acute bronchitis", "bronchitis", "bronchial inflammation", "chest cold"},
		},

		// Endocrine
		{
			Code:        "E11.9",
			Description: "Type 2 diabetes mellitus without complications",
			Category:    "Endocrine",
			Keywords:    []string{"diabetes", "type 2 diabetes", "diabetes mellitus", "T2DM", "adult onset diabetes", "non-insulin dependent diabetes"},
		},
		{
			Code:        "E10.9",
			Description: "Type 1 diabetes mellitus without complications",
			Category:    "Endocrine",
			Keywords:    []string{"type 1 diabetes", "T1DM", "insulin dependent diabetes", "juvenile diabetes"},
		},
		{
			Code:        "E78.5",
			Description: "Hyperlipidemia, unspecified",
			Category:    "Endocrine",
			Keywords:    []string{"hyperlipidemia", "high cholesterol", "dyslipidemia", "elevated lipids", "hypercholesterolemia"},
		},

		// Gastrointestinal
		{
			Code:        "K21.9",
			Description: "Gastro-esophageal reflux disease without esophagitis",
			Category:    "Gastrointestinal",
			Keywords:    []string{"GERD", "gastroesophageal reflux", "acid reflux", "heartburn", "reflux disease"},
		},
		{
			Code:        "K59.00",
			Description: "Constipation, unspecified",
			Category:    "Gastrointestinal",
			Keywords:    []string{"constipation", "chronic constipation", "bowel irregularity", "difficult defecation"},
		},

		// Mental health
		{
			Code:        "F32.9",
			Description: "Major depressive disorder, single episode, unspecified",
			Category:    "Mental Health",
			Keywords:    []string{"depression", "major depression", "depressive disorder", "clinical depression", "major depressive episode"},
		},
		{
			Code:        "F41.9",
			Description: "Anxiety disorder, unspecified",
			Category:    "Mental Health",
			Keywords:    []string{"anxiety", "anxiety disorder", "generalized anxiety", "panic disorder", "anxious"},
		},

		// Musculoskeletal
		{
			Code:        "M79.3",
			Description: "Panniculitis, unspecified",
			Category:    "Musculoskeletal",
			Keywords:    []string{"chronic pain", "musculoskeletal pain", "body pain", "widespread pain"},
		},
		{
			Code:        "M25.50",
			Description: "Pain in unspecified joint",
			Category:    "Musculoskeletal",
			Keywords:    []string{"joint pain", "arthralgia", "joint ache", "articular pain"},
		},

		// Neurological
		{
			Code:        "G43.909",
			Description: "Migraine, unspecified, not intractable, without status migrainosus",
			Category:    "Neurological",
			Keywords:    []string{"migraine", "headache", "severe headache", "migrainous headache"},
		},
		{
			Code:        "R51",
			Description: "Headache",
			Category:    "Neurological",
			Keywords:    []string{"headache", "cephalgia", "head pain"},
		},
	}
}
