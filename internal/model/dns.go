package model

// DNSRecord is one record the mail service expects to exist for a
// domain. Consumed immediately (hosted zone population or CRM note),
// never persisted.
type DNSRecord struct {
	Type     string `json:"type"`
	Hostname string `json:"hostname"`
	Value    string `json:"value"`
}

// VerificationStatus values reported by the mail service for a domain.
const VerificationVerified = "VERIFIED"

// DomainVerification is the ephemeral pair of verification states
// queried on demand; Verified is true only when both are VERIFIED.
type DomainVerification struct {
	Ownership string `json:"ownership"`
	DKIM      string `json:"dkim"`
	Verified  bool   `json:"verified"`
}
