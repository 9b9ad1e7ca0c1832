package entity

import "encoding/json"

// UIEventType identifies a message sent from the embedded UI to the host.
type UIEventType string

const (
	// UIEventOpenFile asks the host to focus a file in the editor.
	UIEventOpenFile UIEventType = "openFile"
	// UIEventApplyChangedFiles asks the host to write a batch of file changes.
	UIEventApplyChangedFiles UIEventType = "applyChangedFilesNative"
	// UIEventGetLocalContext asks for the currently active and recently opened tabs.
	UIEventGetLocalContext UIEventType = "getLocalContextNative"
	// UIEventOpenURL asks the host to open a URL in the default browser.
	UIEventOpenURL UIEventType = "openUrlNative"
)

var _uiEventTypes = map[string]UIEventType{
	string(UIEventOpenFile):          UIEventOpenFile,
	string(UIEventApplyChangedFiles): UIEventApplyChangedFiles,
	string(UIEventGetLocalContext):   UIEventGetLocalContext,
	string(UIEventOpenURL):           UIEventOpenURL,
}

// ParseUIEventType maps a wire value to its UIEventType.
func ParseUIEventType(value string) (UIEventType, bool) {
	t, ok := _uiEventTypes[value]
	return t, ok
}

// UIEvent is a parsed message envelope. Data is decoded later according to Type.
type UIEvent struct {
	Type UIEventType
	Data json.RawMessage
}

// OpenFileData is the payload of UIEventOpenFile.
type OpenFileData struct {
	Path string `json:"path"`
}

// ApplyChangedFilesData is the payload of UIEventApplyChangedFiles.
type ApplyChangedFilesData struct {
	GitRepoURL   string        `json:"gitRepoUrl"`
	ChangedFiles []ChangedFile `json:"changedFiles"`
}

// OpenURLData is the payload of UIEventOpenURL.
type OpenURLData struct {
	URL string `json:"url"`
}

// FileOperation is the kind of change carried by a ChangedFile.
type FileOperation string

const (
	FileOperationCreate FileOperation = "create"
	FileOperationDelete FileOperation = "delete"
	FileOperationUpdate FileOperation = "update"
	FileOperationMove   FileOperation = "move"
)

// Valid reports whether op is one of the known operations.
func (op FileOperation) Valid() bool {
	switch op {
	case FileOperationCreate, FileOperationDelete, FileOperationUpdate, FileOperationMove:
		return true
	}
	return false
}

// ChangedFile is a single file change produced by the assistant.
// Content is nil when absent on the wire, which turns a move into a delete.
type ChangedFile struct {
	Filepath  string        `json:"filepath"`
	Operation FileOperation `json:"operation"`
	Content   *string       `json:"content,omitempty"`
}

// IsUpsert reports whether applying the change writes content to Filepath.
func (f ChangedFile) IsUpsert() bool {
	switch f.Operation {
	case FileOperationCreate, FileOperationUpdate:
		return true
	case FileOperationMove:
		return f.Content != nil
	}
	return false
}

// ContentOrEmpty returns the content to write, treating an absent value as empty.
func (f ChangedFile) ContentOrEmpty() string {
	if f.Content == nil {
		return ""
	}
	return *f.Content
}
