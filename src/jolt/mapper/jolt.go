package mapper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jolt-ai/jolt-host/src/jolt/entity"
	"github.com/jolt-ai/jolt-host/src/jolt/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// UUIDToSession creates an empty session for a new connection.
func UUIDToSession(u uuid.UUID, c *jsonrpc2.Conn) *entity.Session {
	return &entity.Session{
		UUID: u,
		Conn: c,
	}
}

// ContextToSessionUUID extracts the UUID from a context
func ContextToSessionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoSessionFoundError{}
	}
	return s, nil
}

// InitializeParamsToClientName returns the client name reported during initialization, if any.
func InitializeParamsToClientName(params *protocol.InitializeParams) entity.ClientName {
	if params == nil || params.ClientInfo == nil {
		return ""
	}
	return entity.ClientName(params.ClientInfo.Name)
}

// RequestToActiveEditorChangedParams maps the parameters from a jsonrpc2.Request into entity.ActiveEditorChangedParams.
func RequestToActiveEditorChangedParams(req jsonrpc2.Request) (*entity.ActiveEditorChangedParams, error) {
	params := entity.ActiveEditorChangedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDaemonLogParams maps the parameters from a jsonrpc2.Request into entity.DaemonLogParams.
// The request may omit parameters entirely.
func RequestToDaemonLogParams(req jsonrpc2.Request) (*entity.DaemonLogParams, error) {
	params := entity.DaemonLogParams{}
	if len(req.Params()) == 0 {
		return &params, nil
	}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToUIMessage returns the raw message envelope forwarded by the IDE from the embedded UI.
// The envelope is either the params object itself or a JSON string containing it.
func RequestToUIMessage(req jsonrpc2.Request) []byte {
	raw := req.Params()
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []byte(asString)
	}
	return raw
}

// RawToUIEvent parses the envelope sent by the embedded UI.
func RawToUIEvent(raw []byte) (*entity.UIEvent, error) {
	var envelope struct {
		Type *string         `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.NewBridgeParseError(_msgUnparsableEvent)
	}

	data := envelope.Data
	if len(data) == 0 || string(data) == "null" || data[0] != '{' {
		return nil, errors.NewBridgeParseError(_msgUnparsableEvent)
	}

	typeValue := "null"
	if envelope.Type != nil {
		typeValue = *envelope.Type
	}
	eventType, ok := entity.ParseUIEventType(typeValue)
	if !ok {
		return nil, errors.NewBridgeParseError(fmt.Sprintf("Unhandled event type: %s", typeValue))
	}

	return &entity.UIEvent{Type: eventType, Data: data}, nil
}

// UIEventToOpenFileData decodes the payload of an openFile event.
func UIEventToOpenFileData(e *entity.UIEvent) (*entity.OpenFileData, error) {
	data := entity.OpenFileData{}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, errors.NewBridgeParseError(_msgUnparsableEvent)
	}
	return &data, nil
}

// UIEventToApplyChangedFilesData decodes the payload of an applyChangedFilesNative event.
// Entries with an unknown operation are dropped.
func UIEventToApplyChangedFilesData(e *entity.UIEvent) (*entity.ApplyChangedFilesData, error) {
	data := entity.ApplyChangedFilesData{}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, errors.NewBridgeParseError(_msgUnparsableEvent)
	}

	known := data.ChangedFiles[:0]
	for _, f := range data.ChangedFiles {
		if f.Operation.Valid() {
			known = append(known, f)
		}
	}
	data.ChangedFiles = known
	return &data, nil
}

// UIEventToOpenURLData decodes the payload of an openUrlNative event.
func UIEventToOpenURLData(e *entity.UIEvent) (*entity.OpenURLData, error) {
	data := entity.OpenURLData{}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, errors.NewBridgeParseError(_msgUnparsableEvent)
	}
	return &data, nil
}

const _msgUnparsableEvent = "Could not parse request to Ui Event"
