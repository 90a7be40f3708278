package game

// VerifyClientIntegrity reports whether the declared client version matches
// the version the server expects. Outdated or patched clients are refused a
// session rather than being allowed to submit unverifiable data.
func VerifyClientIntegrity(clientVersion, expectedVersion string) bool {
	return clientVersion == expectedVersion
}
