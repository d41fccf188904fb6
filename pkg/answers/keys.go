package answers

// Declarations.
const (
	DeclarationIncomes = "declaration_incomes"
	DeclarationEdaten  = "declaration_edaten"
)

// Marital status.
const (
	Familienstand                           = "familienstand"
	FamilienstandDate                       = "familienstand_date"
	FamilienstandMarriedLivedSeparated      = "familienstand_married_lived_separated"
	FamilienstandMarriedSeparatedSince      = "familienstand_married_lived_separated_since"
	FamilienstandWidowedLivedSeparated      = "familienstand_widowed_lived_separated"
	FamilienstandWidowedSeparatedSince      = "familienstand_widowed_lived_separated_since"
	FamilienstandZusammenveranlagung        = "familienstand_zusammenveranlagung"
	FamilienstandConfirmZusammenveranlagung = "familienstand_confirm_zusammenveranlagung"
	FamilienstandPrefix                     = "familienstand"
	StatusSingle                            = "single"
	StatusMarried                           = "married"
	StatusWidowed                           = "widowed"
	StatusDivorced                          = "divorced"
)

// Tax number.
const (
	SteuernummerExists = "steuernummer_exists"
	Bundesland         = "bundesland"
	Steuernummer       = "steuernummer"
)

// Persons and bank account.
const (
	PersonAPrefix          = "person_a_"
	PersonBPrefix          = "person_b_"
	PersonBSameAddress     = "person_b_same_address"
	IsPersonAAccountHolder = "is_person_a_account_holder"
	IBAN                   = "iban"
	AccountHolder          = "account_holder"
	PersonBStreet          = "person_b_street"
	PersonBStreetNumber    = "person_b_street_number"
	PersonBStreetNumberExt = "person_b_street_number_ext"
	PersonBAddressExt      = "person_b_address_ext"
	PersonBPLZ             = "person_b_plz"
	PersonBTown            = "person_b_town"
)

// Deductions.
const (
	Steuerminderung                = "steuerminderung"
	StmindPrefix                   = "stmind_"
	StmindVorsorgeSumme            = "stmind_vorsorge_summe"
	StmindKrankheitskostenSumme    = "stmind_krankheitskosten_summe"
	StmindKrankheitskostenAnspruch = "stmind_krankheitskosten_anspruch"
	StmindPflegekostenSumme        = "stmind_pflegekosten_summe"
	StmindPflegekostenAnspruch     = "stmind_pflegekosten_anspruch"
	StmindBehAufwSumme             = "stmind_beh_aufw_summe"
	StmindBehAufwAnspruch          = "stmind_beh_aufw_anspruch"
	StmindBehKfzSumme              = "stmind_beh_kfz_summe"
	StmindBehKfzAnspruch           = "stmind_beh_kfz_anspruch"
	StmindBestattungSumme          = "stmind_bestattung_summe"
	StmindBestattungAnspruch       = "stmind_bestattung_anspruch"
	StmindAussergbelaSonstSumme    = "stmind_aussergbela_sonst_summe"
	StmindAussergbelaSonstAnspruch = "stmind_aussergbela_sonst_anspruch"
	StmindHaushaltsnaheEntries     = "stmind_haushaltsnahe_entries"
	StmindHaushaltsnaheSumme       = "stmind_haushaltsnahe_summe"
	StmindHandwerkerEntries        = "stmind_handwerker_entries"
	StmindHandwerkerSumme          = "stmind_handwerker_summe"
	StmindHandwerkerLohnEtcSumme   = "stmind_handwerker_lohn_etc_summe"
	StmindGemHaushaltPrefix        = "stmind_gem_haushalt_"
	StmindGemHaushaltCount         = "stmind_gem_haushalt_count"
	StmindGemHaushaltEntries       = "stmind_gem_haushalt_entries"
	StmindReligionPaidSumme        = "stmind_religion_paid_summe"
	StmindReligionReimbursedSumme  = "stmind_religion_reimbursed_summe"
	StmindSpendenInland            = "stmind_spenden_inland"
	StmindSpendenInlandParteien    = "stmind_spenden_inland_parteien"
)

// Final confirmations.
const (
	ConfirmCompleteCorrect = "confirm_complete_correct"
	ConfirmDataPrivacy     = "confirm_data_privacy"
	ConfirmTermsOfService  = "confirm_terms_of_service"
)
