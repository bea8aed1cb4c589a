package adapter

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mkhiriev/go-lastpass/models"
)

// defaultPluginVersion is the browser-plugin version reported to the vault
// download endpoint. Servers gate some response fields on it.
const defaultPluginVersion = "1.3.3.15.g8767b5e"

type HTTPClientConfig struct {
	// Host is the server host without scheme (e.g. "lastpass.com").
	Host string

	// BaseURL overrides the URL derived from Host. Used by tests.
	BaseURL string

	// PluginVersion is reported via the hasplugin parameter. Defaults to
	// defaultPluginVersion.
	PluginVersion string

	Timeout time.Duration
}

type httpServerAdapter struct {
	client        *resty.Client
	pluginVersion string
}

func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.Host
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PluginVersion == "" {
		cfg.PluginVersion = defaultPluginVersion
	}

	// The server authenticates follow-up requests with the session cookie
	// set during login.
	jar, _ := cookiejar.New(nil)

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetCookieJar(jar)

	return &httpServerAdapter{client: cli, pluginVersion: cfg.PluginVersion}
}

func (h *httpServerAdapter) Iterations(ctx context.Context, username string) (int, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email": strings.ToLower(username),
		}).
		Post("/iterations.php")
	if err != nil {
		return 0, fmt.Errorf("iterations request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	iterations, err := strconv.Atoi(strings.TrimSpace(string(resp.Body())))
	if err != nil {
		return 0, fmt.Errorf("decode iterations response: %w", err)
	}

	return iterations, nil
}

type loginResponse struct {
	XMLName xml.Name `xml:"response"`

	OK *struct {
		UID           string `xml:"uid,attr"`
		Token         string `xml:"token,attr"`
		PrivateKeyEnc string `xml:"privatekeyenc,attr"`
		SessionID     string `xml:"sessionid,attr"`
	} `xml:"ok"`

	Error *struct {
		Message    string `xml:"message,attr"`
		Cause      string `xml:"cause,attr"`
		Iterations int    `xml:"iterations,attr"`
	} `xml:"error"`
}

// twoFactorCauses lists the error causes meaning the credentials were right
// but an extra approval is pending.
var twoFactorCauses = map[string]bool{
	"googleauthrequired":    true,
	"microsoftauthrequired": true,
	"otprequired":           true,
	"outofbandrequired":     true,
}

func (h *httpServerAdapter) Login(ctx context.Context, req LoginRequest) (models.Session, error) {
	form := map[string]string{
		"xml":                  "2",
		"username":             strings.ToLower(req.Username),
		"hash":                 req.LoginKey.Hex(),
		"iterations":           strconv.Itoa(req.Iterations),
		"includeprivatekeyenc": "1",
		"method":               "cli",
		"outofbandsupported":   "1",
	}
	if req.TrustedID != "" {
		form["uuid"] = req.TrustedID
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/login.php")
	if err != nil {
		return models.Session{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	var doc loginResponse
	if err = xml.Unmarshal(resp.Body(), &doc); err != nil {
		return models.Session{}, fmt.Errorf("decode login response: %w", err)
	}

	if doc.Error != nil {
		if twoFactorCauses[doc.Error.Cause] {
			return models.Session{}, &TwoFactorError{Method: doc.Error.Cause, Message: doc.Error.Message}
		}
		if doc.Error.Iterations > 0 && doc.Error.Iterations != req.Iterations {
			return models.Session{}, &IterationsMismatchError{Correct: doc.Error.Iterations}
		}
		return models.Session{}, &LoginError{Message: doc.Error.Message, Cause: doc.Error.Cause}
	}
	if doc.OK == nil {
		return models.Session{}, &LoginError{Message: "server returned neither ok nor error"}
	}

	return models.Session{
		UID:               doc.OK.UID,
		Token:             doc.OK.Token,
		EncodedPrivateKey: doc.OK.PrivateKeyEnc,
		SessionID:         doc.OK.SessionID,
	}, nil
}

type loginCheckResponse struct {
	XMLName xml.Name `xml:"response"`

	OK *struct {
		AccountsVersion string `xml:"accts_version,attr"`
	} `xml:"ok"`
}

func (h *httpServerAdapter) VaultVersion(ctx context.Context, session models.Session) (uint64, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"method": "cli",
		}).
		Post("/login_check.php")
	if err != nil {
		return 0, fmt.Errorf("vault version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	var doc loginCheckResponse
	if err = xml.Unmarshal(resp.Body(), &doc); err != nil {
		return 0, fmt.Errorf("decode vault version response: %w", err)
	}
	if doc.OK == nil {
		return 0, ErrSessionExpired
	}

	version, err := strconv.ParseUint(doc.OK.AccountsVersion, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode accounts version: %w", err)
	}

	return version, nil
}

func (h *httpServerAdapter) FetchVault(ctx context.Context, session models.Session) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"mobile":     "1",
			"b64":        "1",
			"hash":       "0.0",
			"hasplugin":  h.pluginVersion,
			"requestsrc": "cli",
		}).
		Get("/getaccts.php")
	if err != nil {
		return nil, fmt.Errorf("fetch vault request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	// With b64=1 the whole blob arrives base64-encoded.
	blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(resp.Body())))
	if err != nil {
		return nil, fmt.Errorf("decode vault blob: %w", err)
	}

	return blob, nil
}

func (h *httpServerAdapter) LoadAttachment(ctx context.Context, session models.Session, storageKey string) ([]byte, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"token":     session.Token,
			"getattach": storageKey,
		}).
		Post("/getattach.php")
	if err != nil {
		return nil, fmt.Errorf("load attachment request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	// The body is the attachment ciphertext, still encrypted with the
	// owning account's attachment key.
	return resp.Body(), nil
}

func (h *httpServerAdapter) Logout(ctx context.Context, session models.Session) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"method":     "cli",
			"noredirect": "1",
			"token":      session.Token,
		}).
		Post("/logout.php")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return ErrSessionExpired
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
