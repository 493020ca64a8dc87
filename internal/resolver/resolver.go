package resolver

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"schema-deploy/internal/config"
	"schema-deploy/internal/fault"
)

type Variant int

const (
	// Privileged connections can run arbitrary multi-statement SQL.
	Privileged Variant = iota + 1
	// Restricted connections only read rows from named tables.
	Restricted
)

func (v Variant) String() string {
	switch v {
	case Privileged:
		return "privileged"
	case Restricted:
		return "restricted"
	default:
		return "unknown"
	}
}

// Descriptor is the resolved means of reaching the database. Exactly one
// variant's fields are populated.
type Descriptor struct {
	Variant    Variant
	ProjectRef string

	// Privileged
	Driver string
	DSN    string

	// Restricted
	Endpoint string
	APIKey   string
}

// String renders the descriptor with secrets removed.
func (d Descriptor) String() string {
	switch d.Variant {
	case Privileged:
		return fmt.Sprintf("%s %s", d.Driver, redactDSN(d.DSN))
	case Restricted:
		return fmt.Sprintf("table client %s (key %s)", d.Endpoint, redactKey(d.APIKey))
	default:
		return "unresolved"
	}
}

// ProjectRef derives the project identifier from the endpoint's hostname:
// everything before the first dot, or the whole hostname when it has none.
func ProjectRef(endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fault.Newf(fault.Config, "could not parse %s: %v", config.EnvEndpoint, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fault.Newf(fault.Config, "could not parse project reference from %s %q: no hostname", config.EnvEndpoint, endpoint)
	}
	ref, _, _ := strings.Cut(host, ".")
	if ref == "" {
		return "", fault.Newf(fault.Config, "could not parse project reference from %s %q", config.EnvEndpoint, endpoint)
	}
	return ref, nil
}

// SuggestedConnString is the connection string shape the operator should paste,
// with the password left as a placeholder.
func SuggestedConnString(c config.ConnectionConfig, ref string) string {
	return fmt.Sprintf("postgresql://%s:[YOUR-PASSWORD]@%s:%d/%s",
		c.User, config.Expand(c.HostTemplate, ref), c.Port, c.Database)
}

// Resolver turns configuration and operator input into a Descriptor.
type Resolver struct {
	Config *config.Config
	Input  InputProvider
	Out    io.Writer
}

// Privileged prints instructions for fetching the privileged connection
// string and reads it from the input provider. A blank answer is fatal.
func (r *Resolver) Privileged() (Descriptor, error) {
	if err := r.Config.RequireEndpoint(); err != nil {
		return Descriptor{}, err
	}
	ref, err := ProjectRef(r.Config.Endpoint)
	if err != nil {
		return Descriptor{}, err
	}

	c := r.Config.Connection
	fmt.Fprintf(r.Out, "📋 Project Reference: %s\n\n", ref)
	fmt.Fprintln(r.Out, banner)
	fmt.Fprintln(r.Out, "⚠️  IMPORTANT: Direct PostgreSQL Connection Required")
	fmt.Fprintln(r.Out, banner)
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "To execute the schema, you need the PostgreSQL connection string.")
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "📝 How to get your connection string:")
	fmt.Fprintf(r.Out, "   1. Go to: %s\n", config.Expand(c.SettingsURL, ref))
	fmt.Fprintln(r.Out, "   2. Find the 'Connection string' section")
	fmt.Fprintln(r.Out, "   3. Select the 'URI' tab")
	fmt.Fprintln(r.Out, "   4. Copy the connection string")
	fmt.Fprintln(r.Out, "   5. Replace [YOUR-PASSWORD] with your database password")
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "🔗 Your connection string format:")
	fmt.Fprintf(r.Out, "   %s\n\n", SuggestedConnString(c, ref))

	line, err := r.Input.ReadLine("📥 Please paste your PostgreSQL connection string here: ")
	if err != nil {
		return Descriptor{}, fault.Newf(fault.Input, "reading connection string: %v", err)
	}
	dsn := strings.TrimSpace(line)
	if dsn == "" {
		return Descriptor{}, fault.Newf(fault.Input, "connection string is required")
	}

	return Descriptor{
		Variant:    Privileged,
		ProjectRef: ref,
		Driver:     r.Config.Database.Driver,
		DSN:        dsn,
	}, nil
}

// Restricted builds the table-client descriptor from endpoint and API key.
func (r *Resolver) Restricted() (Descriptor, error) {
	if err := r.Config.RequireEndpoint(); err != nil {
		return Descriptor{}, err
	}
	if err := r.Config.RequireAPIKey(); err != nil {
		return Descriptor{}, err
	}
	ref, err := ProjectRef(r.Config.Endpoint)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Variant:    Restricted,
		ProjectRef: ref,
		Endpoint:   strings.TrimRight(r.Config.Endpoint, "/"),
		APIKey:     r.Config.APIKey,
	}, nil
}

const banner = "======================================================================"

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return "(connection string)"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func redactKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
