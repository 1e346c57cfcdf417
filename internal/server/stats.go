package server

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/marmos91/dfcache/internal/wire"
)

type statsMemory struct {
	Used string `json:"used"`
	Free string `json:"free"`
	Max  string `json:"max"`
}

type statsConfig struct {
	RootPath  string `json:"root_path"`
	MaxMemory string `json:"max_memory"`
}

type statsResponse struct {
	Memory     statsMemory `json:"memory"`
	Config     statsConfig `json:"config"`
	LoadedKeys [][]string  `json:"loaded_keys,omitempty"`
	AllKeys    []string    `json:"all_keys,omitempty"`
}

// handleStats answers the "stats" command. Level 0 (the default when
// cmd.Level is absent) returns only memory/config accounting; level 1 adds
// per-key sizes of resident entries; level 2 additionally walks root_path
// for every persisted key.
func handleStats(s *Server, conn io.ReadWriter, cmd wire.Command) error {
	level := 0
	if cmd.Level != nil {
		level = *cmd.Level
	}

	st := s.files.Stats()
	resp := statsResponse{
		Memory: statsMemory{
			Used: strconv.FormatInt(st.Used, 10),
			Free: strconv.FormatInt(st.Free, 10),
			Max:  strconv.FormatInt(st.Max, 10),
		},
		Config: statsConfig{
			RootPath:  s.files.RootPath(),
			MaxMemory: strconv.FormatInt(s.files.MaxMemory(), 10),
		},
	}

	if level >= 1 {
		for _, ki := range s.files.Keys() {
			resp.LoadedKeys = append(resp.LoadedKeys, []string{ki.Key.String(), strconv.FormatInt(ki.Size, 10)})
		}
	}

	if level >= 2 {
		keys, err := s.files.WalkAll()
		if err != nil {
			wire.WriteStatus(conn, err)
			return err
		}
		for _, k := range keys {
			resp.AllKeys = append(resp.AllKeys, k.String())
		}
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		wire.WriteStatus(conn, err)
		return fmt.Errorf("server: marshal stats: %w", err)
	}
	if werr := wire.WriteStatus(conn, nil); werr != nil {
		return werr
	}
	return wire.WriteFrame(conn, payload)
}
