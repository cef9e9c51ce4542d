package client

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// CheckCompatible reports an error when the client and server versions are
// both valid semantic versions with different major versions. Development
// builds and non-semver strings are always accepted.
func CheckCompatible(clientVersion, serverVersion string) error {
	cv, sv := canonical(clientVersion), canonical(serverVersion)
	if cv == "" || sv == "" {
		return nil
	}
	if semver.Major(cv) != semver.Major(sv) {
		return fmt.Errorf("server version %s is incompatible with client %s", sv, cv)
	}
	return nil
}

// Newer reports whether the server runs a newer release than the client.
func Newer(clientVersion, serverVersion string) bool {
	cv, sv := canonical(clientVersion), canonical(serverVersion)
	if cv == "" || sv == "" {
		return false
	}
	return semver.Compare(sv, cv) > 0
}

func canonical(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	return semver.Canonical(v)
}
