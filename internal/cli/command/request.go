package command

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/plmtools/centric-cli/internal/cli/alias"
	"github.com/plmtools/centric-cli/internal/cli/auth"
	"github.com/plmtools/centric-cli/internal/cli/config"
	"github.com/plmtools/centric-cli/internal/cli/connection"
	"github.com/plmtools/centric-cli/internal/cli/output"
	"github.com/plmtools/centric-cli/internal/cli/reqlog"
	"github.com/plmtools/centric-cli/internal/cli/tokencache"
	"github.com/plmtools/centric-cli/internal/telemetry/logger"
)

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// runRequest is the app-level action: resolve configuration, perform
// the API call with the bounded re-auth policy, write the response.
func runRequest(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	explicitToken := c.String("token")

	// No network call happens before required fields are verified.
	if err := cfg.Validate(explicitToken != ""); err != nil {
		return err
	}

	if c.Bool("token-only") {
		return printToken(c, cfg, explicitToken)
	}

	reqURL, err := resolveRequestURL(c, cfg)
	if err != nil {
		return err
	}

	method := strings.ToUpper(strings.TrimSpace(c.String("method")))
	if method == "" {
		method = http.MethodGet
	}
	if !validMethods[method] {
		return errors.Newf("unsupported HTTP method %q", c.String("method"))
	}

	body, err := requestBody(c)
	if err != nil {
		return err
	}

	audit, err := reqlog.Open(cfg.Files.Log)
	if err != nil {
		// Auditing must never break the main flow.
		logger.Warn("audit log unavailable", "error", err)
	}
	defer audit.Close()

	exec := newExecutor(cfg, audit)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout(cfg))
	defer cancel()

	env, err := exec.Execute(ctx, connection.Descriptor{
		Method: method,
		URL:    reqURL,
		Body:   body,
	}, explicitToken)
	if err != nil {
		return err
	}

	dest := cfg.Output.Path
	if err := output.Write(dest, !cfg.Output.Raw, env.Body); err != nil {
		return err
	}
	if dest != "" && dest != output.Stdout {
		fmt.Fprintf(os.Stderr, "Wrote response to %s\n", dest)
	}
	return nil
}

// newExecutor wires the HTTP client, authenticator, and token cache.
func newExecutor(cfg *config.Config, audit *reqlog.Log) *connection.Executor {
	client := connection.NewHTTPClient(requestTimeout(cfg))
	authenticator := auth.New(client, cfg.Credentials(), cfg.API.LoginPath, cfg.API.TokenField)
	cache := tokencache.New(cfg.Files.Token)

	return connection.NewExecutor(client, authenticator, cache,
		connection.WithAuthFailureStatuses(cfg.API.AuthFailureStatuses),
		connection.WithAuditLog(audit),
	)
}

// resolveRequestURL picks the target: an alias (full URL), or the
// endpoint joined onto the base URL behind the API path prefix.
func resolveRequestURL(c *cli.Context, cfg *config.Config) (string, error) {
	if name := c.String("alias"); name != "" {
		set, err := alias.Load(cfg.Files.Aliases)
		if err != nil {
			return "", err
		}
		if url, ok := set.Resolve(name); ok {
			return url, nil
		}
		logger.Warn("alias not found, falling back to default endpoint", "alias", name)
	}

	endpoint := c.String("endpoint")
	if endpoint == "" {
		endpoint = cfg.API.DefaultEndpoint
	}
	if endpoint == "" {
		return "", &config.MissingFieldError{Field: "endpoint"}
	}
	if cfg.API.BaseURL == "" {
		return "", &config.MissingFieldError{Field: "base_url"}
	}

	return connection.JoinURL(cfg.API.BaseURL, cfg.API.PathPrefix, endpoint), nil
}

// requestBody materializes the --data flag, loading @file references.
func requestBody(c *cli.Context) ([]byte, error) {
	data := c.String("data")
	if data == "" {
		return nil, nil
	}
	if path, found := strings.CutPrefix(data, "@"); found {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read request body file %s", path)
		}
		return body, nil
	}
	return []byte(data), nil
}
