// Package git implements the SourceFetcher and Publisher ports by
// shelling out to the git binary. No git library is linked; the CLI is
// the one interface every hosting environment already has.
package git

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/aretw0/stylebot/pkg/domain"
)

// Client runs git commands against working trees.
type Client struct {
	logger   *slog.Logger
	workRoot string // scratch space for clones
	token    string // push/clone credential, never logged
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWorkRoot sets the directory clones are created under.
func WithWorkRoot(dir string) Option {
	return func(c *Client) {
		c.workRoot = dir
	}
}

// WithToken sets the authentication token injected into remote URLs.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a git client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		workRoot: os.TempDir(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch acquires a working tree for the repository. Local paths are used
// in place after verifying they are git repositories; remote URLs are
// cloned into a scratch directory.
func (c *Client) Fetch(ctx context.Context, repo, ref string) (string, error) {
	if info, err := os.Stat(repo); err == nil && info.IsDir() {
		if _, err := c.git(ctx, repo, "rev-parse", "--git-dir"); err != nil {
			return "", fmt.Errorf("not a git repository: %s", repo)
		}
		if ref != "" {
			if _, err := c.git(ctx, repo, "checkout", ref); err != nil {
				return "", err
			}
		}
		return repo, nil
	}

	dir, err := os.MkdirTemp(c.workRoot, "stylebot-checkout-")
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}

	// Full clone. Tools and commit history both want the real thing, not
	// a shallow copy.
	cloneURL := c.authURL(repo)
	cmd := exec.CommandContext(ctx, "git", "clone", cloneURL, dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("clone failed: %v: %s", err, c.redact(string(out)))
	}
	c.logger.Info("repository cloned", "repo", c.redact(repo), "dir", dir)

	if ref != "" {
		if _, err := c.git(ctx, dir, "checkout", ref); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// Changes lists paths that differ from HEAD, staged or not.
func (c *Client) Changes(ctx context.Context, dir string) ([]string, error) {
	out, err := c.git(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}

// Commit stages the given paths and commits them under the bot identity.
// Returns an empty SHA when the paths contain nothing to commit.
func (c *Client) Commit(ctx context.Context, dir, message string, paths []string, id domain.BotIdentity) (string, error) {
	args := append([]string{"add", "--"}, paths...)
	if _, err := c.git(ctx, dir, args...); err != nil {
		return "", err
	}

	// Nothing staged means an earlier commit already covered these paths.
	if _, err := c.git(ctx, dir, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	_, err := c.git(ctx, dir,
		"-c", "user.name="+id.Name,
		"-c", "user.email="+id.Email,
		"commit", "-m", message,
	)
	if err != nil {
		return "", err
	}

	sha, err := c.git(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sha), nil
}

// Push publishes local commits. When a token is configured and the
// remote resolves to an HTTP(S) URL, the token is injected for this one
// command instead of being written into the repository config.
func (c *Client) Push(ctx context.Context, dir, remote, ref string) error {
	dest := remote
	if c.token != "" {
		resolved, err := c.resolveRemote(ctx, dir, remote)
		if err != nil {
			return err
		}
		dest = c.authURL(resolved)
	}

	refspec := "HEAD"
	if ref != "" {
		refspec = "HEAD:" + ref
	}
	if _, err := c.git(ctx, dir, "push", dest, refspec); err != nil {
		return err
	}
	c.logger.Info("fixes pushed", "remote", c.redact(remote), "ref", refspec)
	return nil
}

// resolveRemote turns a remote name into its configured URL; URLs pass
// through unchanged.
func (c *Client) resolveRemote(ctx context.Context, dir, remote string) (string, error) {
	if strings.Contains(remote, "://") {
		return remote, nil
	}
	out, err := c.git(ctx, dir, "remote", "get-url", remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// git runs one git command in dir and returns its combined output.
func (c *Client) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s failed: %v: %s", c.redact(args[0]), err, c.redact(strings.TrimSpace(string(out))))
	}
	return string(out), nil
}

// authURL injects the token as credentials into HTTP(S) URLs.
func (c *Client) authURL(raw string) string {
	if c.token == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return raw
	}
	u.User = url.UserPassword("x-access-token", c.token)
	return u.String()
}

// redact strips the token from anything that could reach a log or error.
func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.token, "***")
}

// parseStatus extracts paths from `git status --porcelain` output.
func parseStatus(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		// Renames are reported as "old -> new"; the new path is the one
		// that exists in the working tree.
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+len(" -> "):]
		}
		paths = append(paths, strings.Trim(path, `"`))
	}
	return paths
}
