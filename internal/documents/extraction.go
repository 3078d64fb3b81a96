package documents

// StructuredExtraction is the flat extraction schema produced by the AI
// service. Empty fields mean "not extracted", never "extraction failed".
type StructuredExtraction struct {
	ImportantDates        *ImportantDates        `json:"importantDates,omitempty"`
	Parties               *Parties               `json:"parties,omitempty"`
	FinancialSummary      *FinancialSummary      `json:"financialSummary,omitempty"`
	KeyCovenants          *KeyCovenants          `json:"keyCovenants,omitempty"`
	RiskHighlights        []RiskHighlight        `json:"riskHighlights,omitempty"`
	OverallRiskAssessment *OverallRiskAssessment `json:"overallRiskAssessment,omitempty"`
}

type ImportantDates struct {
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	LeaseTerm       string `json:"leaseTerm,omitempty"`
	NoticeDeadlines string `json:"noticeDeadlines,omitempty"`
	RenewalDate     string `json:"renewalDate,omitempty"`
}

type Parties struct {
	Landlord  string `json:"landlord,omitempty"`
	Tenant    string `json:"tenant,omitempty"`
	Witnesses string `json:"witnesses,omitempty"`
	RiskLevel string `json:"riskLevel,omitempty"`
}

type FinancialSummary struct {
	MonthlyRent      string `json:"monthlyRent,omitempty"`
	SecurityDeposit  string `json:"securityDeposit,omitempty"`
	AnnualEscalation string `json:"annualEscalation,omitempty"`
	LateFees         string `json:"lateFees,omitempty"`
	AdditionalCosts  string `json:"additionalCosts,omitempty"`
	RiskLevel        string `json:"riskLevel,omitempty"`
}

type KeyCovenants struct {
	UseOfPremises             string `json:"useOfPremises,omitempty"`
	SublettingClause          string `json:"sublettingClause,omitempty"`
	MaintenanceResponsibility string `json:"maintenanceResponsibility,omitempty"`
	TerminationConditions     string `json:"terminationConditions,omitempty"`
	RiskLevel                 string `json:"riskLevel,omitempty"`
}

type RiskHighlight struct {
	Clause string `json:"clause,omitempty"`
	Risk   string `json:"risk,omitempty"`
	Reason string `json:"reason,omitempty"`
	Impact string `json:"impact,omitempty"`
}

type OverallRiskAssessment struct {
	Level           string `json:"level,omitempty"`
	Reason          string `json:"reason,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
}

// ComprehensiveExtraction is the richer extraction schema. It coexists with
// StructuredExtraction on the same document; readers prefer it when both are
// present for a given fact.
type ComprehensiveExtraction struct {
	DocumentSummary       *DocumentSummary       `json:"documentSummary,omitempty"`
	KeyDates              *KeyDates              `json:"keyDates,omitempty"`
	FinancialOverview     *FinancialOverview     `json:"financialOverview,omitempty"`
	KeyRestrictions       *KeyRestrictions       `json:"keyRestrictions,omitempty"`
	OverallRiskAssessment *ComprehensiveRisk     `json:"overallRiskAssessment,omitempty"`
}

type DocumentSummary struct {
	Title     string   `json:"title,omitempty"`
	Overview  string   `json:"overview,omitempty"`
	KeyPoints []string `json:"keyPoints,omitempty"`
}

type KeyDates struct {
	Summary           string   `json:"summary,omitempty"`
	CriticalDeadlines []string `json:"criticalDeadlines,omitempty"`
}

type FinancialOverview struct {
	Summary    string   `json:"summary,omitempty"`
	KeyAmounts []string `json:"keyAmounts,omitempty"`
	RiskLevel  string   `json:"riskLevel,omitempty"`
	RiskReason string   `json:"riskReason,omitempty"`
}

type KeyRestrictions struct {
	Summary        string   `json:"summary,omitempty"`
	ImportantRules []string `json:"importantRules,omitempty"`
	RiskLevel      string   `json:"riskLevel,omitempty"`
	RiskReason     string   `json:"riskReason,omitempty"`
}

type ComprehensiveRisk struct {
	Level           string   `json:"level,omitempty"`
	RiskAnalysis    string   `json:"riskAnalysis,omitempty"`
	Recommendations string   `json:"recommendations,omitempty"`
	WarningFlags    []string `json:"warningFlags,omitempty"`
}
