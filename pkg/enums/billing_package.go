package enums

import "fmt"

// BillingPackage identifies the member-limit tier an HR account paid for.
type BillingPackage string

const (
	BillingPackageStarter  BillingPackage = "starter"
	BillingPackageStandard BillingPackage = "standard"
	BillingPackagePremium  BillingPackage = "premium"
)

var validBillingPackages = []BillingPackage{
	BillingPackageStarter,
	BillingPackageStandard,
	BillingPackagePremium,
}

var billingPackageMemberLimits = map[BillingPackage]int{
	BillingPackageStarter:  5,
	BillingPackageStandard: 10,
	BillingPackagePremium:  20,
}

// String implements fmt.Stringer.
func (p BillingPackage) String() string {
	return string(p)
}

// IsValid reports whether the value is a known BillingPackage.
func (p BillingPackage) IsValid() bool {
	for _, candidate := range validBillingPackages {
		if candidate == p {
			return true
		}
	}
	return false
}

// MemberLimit returns the member allotment the package grants.
func (p BillingPackage) MemberLimit() int {
	return billingPackageMemberLimits[p]
}

// ParseBillingPackage converts raw input into a BillingPackage.
func ParseBillingPackage(value string) (BillingPackage, error) {
	for _, candidate := range validBillingPackages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid billing package %q", value)
}
