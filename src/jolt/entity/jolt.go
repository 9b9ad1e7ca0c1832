// Package entity contains the domain types for the jolt host service.
package entity

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// Session entity representing a single IDE session.
type Session struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             *jsonrpc2.Conn             `json:"-" zap:"-"`
	WorkspaceRoot    string                     `json:"workspaceRoot" zap:"workspaceRoot"`
	ClientName       ClientName                 `json:"clientName" zap:"clientName"`
}

// ClientName identifies the name that the will be set in the initialization parameters for a given client.
type ClientName string

const (
	// ClientNameIntelliJ is the name reported by JetBrains based clients.
	ClientNameIntelliJ ClientName = "IntelliJ"
	// ClientNameVSCode is the name of the VSCode client.
	ClientNameVSCode ClientName = "Visual Studio Code"
)

// DaemonStatus is the lifecycle state of a workspace's daemon process.
type DaemonStatus string

const (
	// DaemonStatusPending is the initial state until the daemon reports readiness or fails.
	DaemonStatusPending DaemonStatus = "pending"
	// DaemonStatusStarted indicates that the daemon printed its started signal or its port is active.
	DaemonStatusStarted DaemonStatus = "started"
	// DaemonStatusNodeNotFound indicates that no compatible runtime could be found.
	DaemonStatusNodeNotFound DaemonStatus = "nodeNotFound"
	// DaemonStatusFailedToStart covers every other startup failure.
	DaemonStatusFailedToStart DaemonStatus = "failedToStart"
)

// IsTerminal reports whether no further transitions are possible out of s.
func (s DaemonStatus) IsTerminal() bool {
	return s != DaemonStatusPending
}

// String implements fmt.Stringer.
func (s DaemonStatus) String() string {
	return string(s)
}

// BootstrapState is the blob handed to the embedded UI when its content is loaded.
type BootstrapState struct {
	Route               string       `json:"route"`
	HasWslConfigProblem bool         `json:"hasWslConfigProblem"`
	DaemonPort          int          `json:"daemonPort"`
	DaemonStatus        DaemonStatus `json:"daemonStatus"`
}

// BootstrapRouteChat is the only route the embedded UI is opened on.
const BootstrapRouteChat = "/chat"

// NewBootstrapState returns the bootstrap blob for a daemon listening on port with the given status.
func NewBootstrapState(port int, status DaemonStatus) BootstrapState {
	return BootstrapState{
		Route:        BootstrapRouteChat,
		DaemonPort:   port,
		DaemonStatus: status,
	}
}

// LocalContextData describes the editor tabs relevant to the current conversation.
type LocalContextData struct {
	ActiveTab *string  `json:"activeTab"`
	OpenTabs  []string `json:"openTabs"`
}

// ActiveEditorChangedParams is sent by the IDE whenever the focused editor changes.
// An empty URI means that no editor has focus.
type ActiveEditorChangedParams struct {
	URI protocol.DocumentURI `json:"uri,omitempty"`
}

// UIQueryResult is returned on success for bridge calls.
type UIQueryResult map[string]interface{}

// SuccessResult is the response body shared by all operations that only acknowledge.
func SuccessResult() UIQueryResult {
	return UIQueryResult{"success": true}
}

// DaemonLogParams requests the recently buffered daemon output for the session's workspace.
type DaemonLogParams struct {
	MaxLines int `json:"maxLines,omitempty"`
}

// DaemonLogResult carries the buffered daemon output and the path of the full log file.
type DaemonLogResult struct {
	Path  string   `json:"path"`
	Lines []string `json:"lines"`
}
