package wire

import (
	"encoding/json"
	"fmt"
	"io"
)

// Command names understood by the dispatcher.
const (
	CmdGet             = "get"
	CmdSet             = "set"
	CmdLoad            = "load"
	CmdUnload          = "unload"
	CmdStats           = "stats"
	CmdClose           = "close"
	CmdDFUpdate        = "df:update"
	CmdDFFilter        = "df:filter"
	RangeTypeTimestamp = "timestamp"
)

// Command is the JSON envelope every request begins with.
type Command struct {
	Name       string   `json:"name"`
	KeyPath    []string `json:"key_path,omitempty"`
	RangeStart *int64   `json:"range_start,omitempty"`
	RangeEnd   *int64   `json:"range_end,omitempty"`
	RangeType  string   `json:"range_type,omitempty"`
	Level      *int     `json:"level,omitempty"`
}

// ReadCommand reads one length-framed payload from r and decodes it as a
// Command.
func ReadCommand(r io.Reader) (Command, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return Command{}, err
	}
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("wire: decode command: %w", err)
	}
	return cmd, nil
}

// WriteCommand encodes cmd as JSON and writes it as one length-framed
// payload to w.
func WriteCommand(w io.Writer, cmd Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("wire: encode command: %w", err)
	}
	return WriteFrame(w, payload)
}

// StatusEnvelope is the success/failure response framed after most
// commands.
type StatusEnvelope struct {
	Success bool   `json:"success"`
	Err     string `json:"err,omitempty"`
}

// WriteStatus frames and writes a StatusEnvelope reflecting err (nil means
// success).
func WriteStatus(w io.Writer, err error) error {
	env := StatusEnvelope{Success: err == nil}
	if err != nil {
		env.Err = err.Error()
	}
	payload, marshalErr := json.Marshal(env)
	if marshalErr != nil {
		return fmt.Errorf("wire: encode status: %w", marshalErr)
	}
	return WriteFrame(w, payload)
}

// ReadStatus reads and decodes a StatusEnvelope, returning a non-nil error
// built from its Err field when Success is false.
func ReadStatus(r io.Reader) error {
	payload, err := ReadFrame(r)
	if err != nil {
		return err
	}
	var env StatusEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("wire: decode status: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("wire: remote error: %s", env.Err)
	}
	return nil
}
