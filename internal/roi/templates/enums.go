package templates

import "github.com/meridiangrc/roi/internal/roi"

// Enumeration dictionaries shared across templates. Internal values
// are what the store holds and the UI edits; external codes are the
// standardized ESA codes written at export time.

var entityType = roi.NewEnumeration(
	roi.EnumPair{Internal: "credit_institution", External: "eba_CT:x12"},
	roi.EnumPair{Internal: "investment_firm", External: "eba_CT:x8"},
	roi.EnumPair{Internal: "payment_institution", External: "eba_CT:x644"},
	roi.EnumPair{Internal: "insurance_undertaking", External: "eba_CT:x598"},
	roi.EnumPair{Internal: "other", External: "eba_CT:x999"},
)

var hierarchy = roi.NewEnumeration(
	roi.EnumPair{Internal: "ultimate_parent", External: "eba_RP:x1"},
	roi.EnumPair{Internal: "parent", External: "eba_RP:x2"},
	roi.EnumPair{Internal: "subsidiary", External: "eba_RP:x3"},
)

var contractType = roi.NewEnumeration(
	roi.EnumPair{Internal: "standalone", External: "eba_CO:x1"},
	roi.EnumPair{Internal: "overarching", External: "eba_CO:x2"},
	roi.EnumPair{Internal: "subsequent", External: "eba_CO:x3"},
)

var yesNo = roi.NewEnumeration(
	roi.EnumPair{Internal: "yes", External: "eba_BT:x28"},
	roi.EnumPair{Internal: "no", External: "eba_BT:x29"},
)

var serviceType = roi.NewEnumeration(
	roi.EnumPair{Internal: "cloud", External: "eba_TA:x1"},
	roi.EnumPair{Internal: "software", External: "eba_TA:x2"},
	roi.EnumPair{Internal: "data_analysis", External: "eba_TA:x3"},
	roi.EnumPair{Internal: "network_infrastructure", External: "eba_TA:x4"},
	roi.EnumPair{Internal: "security_services", External: "eba_TA:x5"},
	roi.EnumPair{Internal: "other", External: "eba_TA:x99"},
)

var sensitiveness = roi.NewEnumeration(
	roi.EnumPair{Internal: "low", External: "eba_ZZ:x1"},
	roi.EnumPair{Internal: "medium", External: "eba_ZZ:x2"},
	roi.EnumPair{Internal: "high", External: "eba_ZZ:x3"},
)

var substitutability = roi.NewEnumeration(
	roi.EnumPair{Internal: "easy", External: "eba_SB:x1"},
	roi.EnumPair{Internal: "difficult", External: "eba_SB:x2"},
	roi.EnumPair{Internal: "highly_complex", External: "eba_SB:x3"},
)

var personType = roi.NewEnumeration(
	roi.EnumPair{Internal: "legal_person", External: "eba_CT:x212"},
	roi.EnumPair{Internal: "natural_person", External: "eba_CT:x213"},
)

var idCodeType = roi.NewEnumeration(
	roi.EnumPair{Internal: "lei", External: "eba_GA:x1"},
	roi.EnumPair{Internal: "corporate_registration", External: "eba_GA:x2"},
	roi.EnumPair{Internal: "other", External: "eba_GA:x9"},
)
