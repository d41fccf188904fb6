package lotse

import "github.com/goliatone/go-lotse/pkg/answers"

// DebugStep is where `start` leads when debug data is enabled.
const DebugStep = StepSummary

// DebugData returns a complete set of answers for a married couple filing
// jointly with every deduction filled. Development servers seed new sessions
// with it so the summary can be reached without clicking through the wizard.
func DebugData() answers.Store {
	return answers.New(map[string]any{
		answers.DeclarationEdaten:  true,
		answers.DeclarationIncomes: true,

		answers.SteuernummerExists: answers.Yes,
		answers.Steuernummer:       "19811310010",
		answers.Bundesland:         "BY",

		answers.Familienstand:                           answers.StatusMarried,
		answers.FamilienstandDate:                       "2000-01-31",
		answers.FamilienstandMarriedLivedSeparated:      answers.No,
		answers.FamilienstandConfirmZusammenveranlagung: true,

		"person_a_idnr":              "04452397687",
		"person_a_dob":               "1950-08-16",
		"person_a_first_name":        "Manfred",
		"person_a_last_name":         "Mustername",
		"person_a_street":            "Steuerweg",
		"person_a_street_number":     42,
		"person_a_street_number_ext": "a",
		"person_a_address_ext":       "Seitenflügel",
		"person_a_plz":               "20354",
		"person_a_town":              "Hamburg",
		"person_a_beh_grad":          25,
		"person_a_blind":             true,
		"person_a_gehbeh":            true,

		"person_b_idnr":            "02293417683",
		"person_b_dob":             "1951-02-25",
		"person_b_first_name":      "Gerta",
		"person_b_last_name":       "Mustername",
		answers.PersonBSameAddress: answers.Yes,
		"person_b_blind":           false,
		"person_b_gehbeh":          false,

		answers.IsPersonAAccountHolder: answers.Yes,
		answers.IBAN:                   "DE35133713370000012345",

		answers.Steuerminderung: answers.Yes,

		answers.StmindHaushaltsnaheEntries: []any{"Gartenarbeiten"},
		answers.StmindHaushaltsnaheSumme:   "500.00",

		answers.StmindHandwerkerEntries:      []any{"Renovierung Badezimmer"},
		answers.StmindHandwerkerSumme:        "200.00",
		answers.StmindHandwerkerLohnEtcSumme: "100.00",

		answers.StmindVorsorgeSumme:           "111.11",
		answers.StmindSpendenInland:           "222.22",
		answers.StmindSpendenInlandParteien:   "333.33",
		answers.StmindReligionPaidSumme:       "444.44",
		answers.StmindReligionReimbursedSumme: "555.55",

		answers.StmindKrankheitskostenSumme:    "1011.11",
		answers.StmindKrankheitskostenAnspruch: "1011.12",
		answers.StmindPflegekostenSumme:        "2022.21",
		answers.StmindPflegekostenAnspruch:     "2022.22",
		answers.StmindBehAufwSumme:             "3033.31",
		answers.StmindBehAufwAnspruch:          "3033.32",
		answers.StmindBehKfzSumme:              "4044.41",
		answers.StmindBehKfzAnspruch:           "4044.42",
		answers.StmindBestattungSumme:          "5055.51",
		answers.StmindBestattungAnspruch:       "5055.52",
		answers.StmindAussergbelaSonstSumme:    "6066.61",
		answers.StmindAussergbelaSonstAnspruch: "6066.62",

		answers.ConfirmCompleteCorrect: true,
		answers.ConfirmDataPrivacy:     true,
		answers.ConfirmTermsOfService:  true,
	})
}
