package credential

import "crypto/subtle"

// AdminGate authenticates the administrator against a digest injected from
// configuration. It is a separate credential namespace from holder accounts:
// the gate reports only pass/fail, so a caller can never tell a wrong name
// from a wrong secret.
type AdminGate struct {
	name   string
	digest string
	gate   *Gate
}

func NewAdminGate(name, digest string, gate *Gate) *AdminGate {
	return &AdminGate{name: name, digest: digest, gate: gate}
}

// Verify checks both the administrator name and secret. Both checks always
// run so timing does not reveal which one failed.
func (ag *AdminGate) Verify(name, secret string) bool {
	if ag.digest == "" {
		return false
	}
	nameOK := subtle.ConstantTimeCompare([]byte(ag.name), []byte(name)) == 1
	secretOK := ag.gate.Verify(secret, ag.digest)
	return nameOK && secretOK
}
