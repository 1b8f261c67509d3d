// Package version reports the build version and checks whether a client's
// declared API version can talk to this server.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is the server build version. Release builds override it with
// -ldflags "-X github.com/cwbudde/algo-filterd/internal/version.Version=...".
var Version = "1.2.0"

// MinClient is the oldest client API version the server still accepts.
const MinClient = "1.0.0"

// Current returns Version, or "dev" when it is not valid semver.
func Current() string {
	if _, err := semver.NewVersion(Version); err != nil {
		return "dev"
	}
	return Version
}

// Constraint returns the client versions this server accepts: at least
// MinClient and within the server's major version.
func Constraint() (*semver.Constraints, error) {
	sv, err := semver.NewVersion(Current())
	if err != nil {
		return semver.NewConstraint(">=" + MinClient)
	}
	return semver.NewConstraint(fmt.Sprintf(">=%s, <%d.0.0", MinClient, sv.Major()+1))
}

// Compatible reports whether client satisfies Constraint.
func Compatible(client string) (bool, error) {
	cv, err := semver.NewVersion(client)
	if err != nil {
		return false, fmt.Errorf("client version %q: %w", client, err)
	}
	c, err := Constraint()
	if err != nil {
		return false, err
	}
	return c.Check(cv), nil
}
