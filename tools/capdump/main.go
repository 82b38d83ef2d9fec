package main

import (
	"combat-meter/internal/infrastructure/storage"
	"combat-meter/internal/packets"
	"combat-meter/pkg/api"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/invopop/jsonschema"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	var err error
	switch os.Args[1] {
	case "stats", "dump":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: capdump %s <capture.mtrc>\n", os.Args[1])
			os.Exit(2)
		}
		var rec *storage.Recording
		rec, err = storage.Load(os.Args[2])
		if err != nil {
			break
		}
		if os.Args[1] == "stats" {
			err = writeStats(os.Stdout, rec)
		} else {
			err = writeDump(os.Stdout, rec)
		}
	case "schema":
		if len(os.Args) < 3 {
			err = writeJSON(os.Stdout, buildSchema())
		} else {
			err = writeSchemaFile(os.Args[2], buildSchema())
		}
	default:
		printHelp()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "capdump: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`capdump - инспекция записей захвата
Commands:
  stats <file>     - количество кадров по опкодам, длительность, ошибки декодирования
  dump <file>      - покадровый вывод с декодированными пакетами
  schema [out]     - JSON schema события encounter-update`)
}

type opcodeStats struct {
	Opcode  packets.Opcode
	Count   int
	Bytes   int
	Failed  int
	Unknown bool
}

func collectStats(rec *storage.Recording) []opcodeStats {
	byOp := make(map[packets.Opcode]*opcodeStats)
	for _, f := range rec.Frames {
		s, ok := byOp[f.Opcode]
		if !ok {
			s = &opcodeStats{Opcode: f.Opcode, Unknown: !f.Opcode.Known()}
			byOp[f.Opcode] = s
		}
		s.Count++
		s.Bytes += len(f.Data)
		if !s.Unknown {
			if _, err := packets.Decode(f.Opcode, f.Data); err != nil {
				s.Failed++
			}
		}
	}

	out := make([]opcodeStats, 0, len(byOp))
	for _, s := range byOp {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Opcode < out[j].Opcode
	})
	return out
}

func writeStats(w io.Writer, rec *storage.Recording) error {
	var duration int64
	if n := len(rec.Frames); n > 0 {
		duration = rec.Frames[n-1].Timestamp.Sub(rec.Start).Milliseconds()
	}
	if _, err := fmt.Fprintf(w, "frames: %d\nduration: %dms\n\n", len(rec.Frames), duration); err != nil {
		return err
	}

	for _, s := range collectStats(rec) {
		note := ""
		switch {
		case s.Unknown:
			note = " (ignored)"
		case s.Failed > 0:
			note = fmt.Sprintf(" (%d failed to decode)", s.Failed)
		}
		if _, err := fmt.Fprintf(w, "%-32s %6d frames %8d bytes%s\n", s.Opcode, s.Count, s.Bytes, note); err != nil {
			return err
		}
	}
	return nil
}

func writeDump(w io.Writer, rec *storage.Recording) error {
	for i, f := range rec.Frames {
		offset := f.Timestamp.Sub(rec.Start).Milliseconds()
		line := fmt.Sprintf("#%d +%dms %s len=%d", i, offset, f.Opcode, len(f.Data))
		if f.Opcode.Known() {
			pkt, err := packets.Decode(f.Opcode, f.Data)
			if err != nil {
				line += fmt.Sprintf(" error=%v", err)
			} else {
				line += fmt.Sprintf(" %+v", pkt)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(api.EncounterView))
	schema.Title = "Combat Meter Encounter Update"
	schema.Description = "Payload of the encounter-update event"
	return schema
}

func writeJSON(w io.Writer, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeSchemaFile(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
