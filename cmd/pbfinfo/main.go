// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pbfinfo prints header and entity-count information about an OSM
// PBF file, and demonstrates the indexed reader's dependency-closure
// retrieval.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rosmosis/pbf"
	"github.com/rosmosis/pbf/cmd/pbfinfo/cli"
	"github.com/rosmosis/pbf/index"
	"github.com/rosmosis/pbf/model"
)

var (
	jsonfmt    bool
	extended   bool
	ncpu       uint16
	useIndex   bool
	memberType string
	memberID   int64
)

type extendedHeader struct {
	model.Header

	NodeCount     int64 `json:"node_count,omitempty"`
	WayCount      int64 `json:"way_count,omitempty"`
	RelationCount int64 `json:"relation_count,omitempty"`
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pbfinfo [<OSM PBF file>]",
	Short: "Print information about an OpenStreetMap PBF file",
	Long:  "Print header and, optionally, entity-count information about an OpenStreetMap PBF file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&jsonfmt, "json", "j", false, "format information as JSON")
	flags.BoolVarP(&extended, "extended", "e", false, "scan the entire file and report entity counts")
	flags.Uint16VarP(&ncpu, "max-cpu", "m", uint16(runtime.GOMAXPROCS(-1)), "maximum number of CPUs to use for scanning")
	flags.BoolVarP(&useIndex, "index", "i", false, "build (if needed) and query the file's sidecar index")
	flags.StringVar(&memberType, "type", "node", "element type for --index lookups: node, way, or relation")
	flags.Int64Var(&memberID, "id", 0, "element id for --index lookups")
}

func runInfo(cmd *cobra.Command, args []string) error {
	var (
		f   *os.File
		err error
	)

	if len(args) == 1 {
		f, err = os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open %s: %w", args[0], err)
		}
		defer f.Close()
	} else {
		f = os.Stdin
	}

	in, err := cli.WrapInputFile(f)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx := context.Background()

	dec, err := pbf.NewDecoder(ctx, in, pbf.WithNCpus(ncpu))
	if err != nil {
		return fmt.Errorf("cannot read header: %w", err)
	}

	info := &extendedHeader{Header: dec.Header}

	if extended {
		var nc, wc, rc int64

		for {
			batch, err := dec.Decode()
			if errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				dec.Close()

				return fmt.Errorf("cannot decode: %w", err)
			}

			for _, e := range batch {
				switch e.(type) {
				case *model.Node:
					nc++
				case *model.Way:
					wc++
				case *model.Relation:
					rc++
				default:
					dec.Close()

					return fmt.Errorf("unknown entity type %T", e)
				}
			}
		}

		info.NodeCount = nc
		info.WayCount = wc
		info.RelationCount = rc
	}

	if err := dec.Close(); err != nil {
		return err
	}

	if jsonfmt {
		return renderJSON(os.Stdout, info, extended)
	}

	renderText(os.Stdout, info, extended)

	if useIndex && len(args) == 1 {
		return runIndexDemo(args[0])
	}

	return nil
}

func renderJSON(w io.Writer, info *extendedHeader, extended bool) error {
	var v any = info.Header
	if extended {
		v = info
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot marshal info: %w", err)
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

func renderText(w io.Writer, info *extendedHeader, extended bool) {
	fmt.Fprintf(w, "BoundingBox: %s\n", info.BoundingBox)
	fmt.Fprintf(w, "RequiredFeatures: %s\n", strings.Join(info.RequiredFeatures, ", "))
	fmt.Fprintf(w, "OptionalFeatures: %s\n", strings.Join(info.OptionalFeatures, ", "))
	fmt.Fprintf(w, "WritingProgram: %s\n", info.WritingProgram)
	fmt.Fprintf(w, "Source: %s\n", info.Source)
	if info.HasReplicationInfo() {
		fmt.Fprintf(w, "OsmosisReplicationTimestamp: %s\n", info.OsmosisReplicationTimestamp.UTC().Format(time.RFC3339))
		fmt.Fprintf(w, "OsmosisReplicationSequenceNumber: %d\n", info.OsmosisReplicationSequenceNumber)
		fmt.Fprintf(w, "OsmosisReplicationBaseURL: %s\n", info.OsmosisReplicationBaseURL)
	}

	if extended {
		fmt.Fprintf(w, "NodeCount: %s\n", humanize.Comma(info.NodeCount))
		fmt.Fprintf(w, "WayCount: %s\n", humanize.Comma(info.WayCount))
		fmt.Fprintf(w, "RelationCount: %s\n", humanize.Comma(info.RelationCount))
	}
}

func runIndexDemo(path string) error {
	var t model.EntityType

	switch strings.ToLower(memberType) {
	case "node":
		t = model.NODE
	case "way":
		t = model.WAY
	case "relation":
		t = model.RELATION
	default:
		return fmt.Errorf("unknown --type %q", memberType)
	}

	r, err := index.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open index: %w", err)
	}
	defer r.Close()

	entities, err := r.GetWithDeps(t, model.ID(memberID))
	if err != nil {
		return fmt.Errorf("cannot resolve %s %d: %w", memberType, memberID, err)
	}

	fmt.Printf("\n%s %d and its dependency closure (%d elements):\n", memberType, memberID, len(entities))

	for _, e := range entities {
		fmt.Printf("  %s %d\n", entityKind(e), e.GetID())
	}

	return nil
}

// entityKind reports which of the three PBF primitive kinds e is.
func entityKind(e model.Entity) model.EntityType {
	switch e.(type) {
	case *model.Way:
		return model.WAY
	case *model.Relation:
		return model.RELATION
	default:
		return model.NODE
	}
}
