// Package approvalrules loads approval block lists from a YAML file.
//
// Example file:
//
//	blockLists:
//	  - kind: QUANTITY_ON_TRANSPORT_UNIT
//	    code: SKU_BLOCKED
//	    blocked:
//	      SKU-13: recalled by supplier
//	  - kind: TRANSPORT_UNIT_RECEIPT
//	    code: TU_TYPE_BLOCKED
//	    blocked:
//	      ONE_WAY: pallet type not accepted
package approvalrules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/services/approval"

	"gopkg.in/yaml.v3"
)

// File is the root of the rules document.
type File struct {
	BlockLists []BlockListRule `yaml:"blockLists"`
}

// BlockListRule configures one approval.BlockList.
type BlockListRule struct {
	Kind    string            `yaml:"kind"`
	Code    string            `yaml:"code"`
	Blocked map[string]string `yaml:"blocked"`
}

// Load reads path and builds the approval chain. An empty path yields an empty
// chain that approves everything.
func Load(path string) (*approval.Chain, error) {
	if path == "" {
		return approval.NewChain(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read approval rules: %w", err)
	}
	return Parse(data)
}

// Parse builds the approval chain from a YAML document. Unknown fields are rejected.
func Parse(data []byte) (*approval.Chain, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse approval rules: %w", err)
	}

	approvers := make([]approval.Approver, 0, len(file.BlockLists))
	for i, rule := range file.BlockLists {
		kind, err := capture.ParseKind(rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("blockLists[%d]: %w", i, err)
		}
		blockList, err := approval.NewBlockList(kind, rule.Code, rule.Blocked)
		if err != nil {
			return nil, fmt.Errorf("blockLists[%d]: %w", i, err)
		}
		approvers = append(approvers, blockList)
	}

	return approval.NewChain(approvers...), nil
}
