package models

type LicenseCategory string

const (
	CategoryAM LicenseCategory = "AM"
	CategoryA1 LicenseCategory = "A1"
	CategoryA2 LicenseCategory = "A2"
	CategoryA  LicenseCategory = "A"
	CategoryB  LicenseCategory = "B"
	CategoryBE LicenseCategory = "BE"
	CategoryC  LicenseCategory = "C"
	CategoryD  LicenseCategory = "D"
)

type LicenseType struct {
	ID                    string
	Name                  string
	Description           string
	Category              LicenseCategory
	MinAge                int
	RequiresTheoryExam    bool
	RequiresPracticalExam bool
	RequiresMedicalExam   bool
	ValidityYears         int
	Price                 float64
	IsActive              bool
}
