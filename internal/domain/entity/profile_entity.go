package entity

import "time"

// DocKey names one of the documents a pharmacy has to upload.
type DocKey string

const (
	DocDrugLicense            DocKey = "drugLicense"
	DocGSTCertificate         DocKey = "gstCertificate"
	DocPharmacistRegistration DocKey = "pharmacistRegistration"
)

// DefaultLang is assigned to freshly created profiles.
const DefaultLang = "en"

// DocKeys lists the accepted document keys in display order.
var DocKeys = []DocKey{DocDrugLicense, DocGSTCertificate, DocPharmacistRegistration}

// Valid reports whether k is one of the fixed document keys.
func (k DocKey) Valid() bool {
	switch k {
	case DocDrugLicense, DocGSTCertificate, DocPharmacistRegistration:
		return true
	}
	return false
}

// Profile is the per-account business record. Docs maps every DocKey to the
// id of the blob currently serving it, or nil when nothing was uploaded.
type Profile struct {
	ID            string
	OwnerID       string
	PharmacyName  string
	LicenseNumber string
	Phone         string
	Address       string
	Lang          string
	Docs          map[DocKey]*string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDocs returns a docs map with every key present and unset.
func NewDocs() map[DocKey]*string {
	docs := make(map[DocKey]*string, len(DocKeys))
	for _, k := range DocKeys {
		docs[k] = nil
	}
	return docs
}

// ProfilePatch carries a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	PharmacyName  *string
	LicenseNumber *string
	Phone         *string
	Address       *string
	Lang          *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.PharmacyName == nil && p.LicenseNumber == nil && p.Phone == nil && p.Address == nil && p.Lang == nil
}
