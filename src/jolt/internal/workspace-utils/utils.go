package workspaceutils

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	ideclient "github.com/jolt-ai/jolt-host/src/jolt/gateway/ide-client"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/executor"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/fs"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a new WorkspaceUtils.
var Module = fx.Provide(New)

// WorkspaceUtils is a utility interface for getting workspace related information.
type WorkspaceUtils interface {
	// GetWorkspaceRoot returns the directory opened by the IDE, preferring workspace folders over the root URI.
	GetWorkspaceRoot(ctx context.Context, params *protocol.InitializeParams) (string, error)
	// GetRemoteURL returns the URL of the "origin" remote of the git repository containing dir.
	GetRemoteURL(ctx context.Context, dir string) (string, error)
}

// Params are the parameters required to create a new WorkspaceUtils.
type Params struct {
	fx.In

	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	FS         fs.JoltFS
	Executor   executor.Executor
}

type workspaceUtilsImpl struct {
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	fs         fs.JoltFS
	executor   executor.Executor
}

// New creates a new WorkspaceUtils.
func New(p Params) WorkspaceUtils {
	return &workspaceUtilsImpl{
		ideGateway: p.IdeGateway,
		logger:     p.Logger,
		fs:         p.FS,
		executor:   p.Executor,
	}
}

func (c *workspaceUtilsImpl) GetWorkspaceRoot(ctx context.Context, params *protocol.InitializeParams) (string, error) {
	if params == nil {
		return "", fmt.Errorf("no initialize params provided")
	}

	candidates := make([]string, 0, len(params.WorkspaceFolders)+1)
	for _, folder := range params.WorkspaceFolders {
		candidates = append(candidates, folder.URI)
	}
	if params.RootURI != "" {
		candidates = append(candidates, string(params.RootURI))
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no workspace folders provided")
	}

	result := ""
	for _, candidate := range candidates {
		// code-workspace files may contain improperly formatted or nonexistent folders.
		// only return an error if no workspace root can be found among any of the given folders.
		dir, err := uriToPath(candidate)
		if err != nil {
			continue
		}
		exists, err := c.fs.DirExists(dir)
		if err != nil || !exists {
			continue
		}
		result = dir
		break
	}

	if result == "" {
		return "", fmt.Errorf("unable to determine a workspace root among the following searched folders: %v", strings.Join(candidates, ", "))
	}

	if len(params.WorkspaceFolders) > 1 {
		msg := fmt.Sprintf("Jolt uses %q as the project root. Other folders in this workspace are not visible to Jolt.", result)
		c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: msg,
		})
		c.logger.Warn(msg)
	}

	return result, nil
}

func (c *workspaceUtilsImpl) GetRemoteURL(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = dir
	stdout, stderr, _, err := c.executor.Run(cmd)
	if err != nil {
		return "", fmt.Errorf("getting git remote url: %w: %s", err, strings.TrimSpace(stderr))
	}

	remoteURL := strings.TrimSpace(stdout)
	if remoteURL == "" {
		return "", fmt.Errorf("empty git remote url in %s", dir)
	}
	c.logger.Infof("git remote url: %s", remoteURL)
	return remoteURL, nil
}

func uriToPath(raw string) (string, error) {
	if !strings.HasPrefix(raw, uri.FileScheme+"://") {
		if filepath.IsAbs(raw) {
			return filepath.Clean(raw), nil
		}
		return "", fmt.Errorf("unsupported workspace folder %q", raw)
	}
	u, err := uri.Parse(raw)
	if err != nil {
		return "", err
	}
	return u.Filename(), nil
}
