package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sarchlab/procsim/container"
	"github.com/sarchlab/procsim/ident"
	"github.com/sarchlab/procsim/program"
)

// Line is one parsed, uncompiled instruction: its mnemonic and operand
// tokens as written, with the first operand taken as the destination
// and the rest as sources (`MNEMONIC DST, SRC1, SRC2, …`).
type Line struct {
	Mnemonic string
	Dest     string
	Sources  []string
}

// LoadProgram reads assembly text from r: one instruction per
// non-blank line, mnemonic and operands separated by whitespace,
// operands separated by commas with optional surrounding whitespace.
func LoadProgram(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		mnemonic := fields[0]
		rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))

		var operands []string
		if rest != "" {
			for _, op := range strings.Split(rest, ",") {
				op = strings.TrimSpace(op)
				if op == "" {
					return nil, &Error{Kind: CodeError, Line: lineNo, Text: "empty operand"}
				}
				operands = append(operands, op)
			}
		}

		if len(operands) == 0 {
			return nil, &Error{Kind: CodeError, Line: lineNo, Text: "missing operands"}
		}
		line := Line{Mnemonic: mnemonic, Dest: operands[0], Sources: operands[1:]}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading program text: %w", err)
	}

	return lines, nil
}

// LoadProgramFile opens path and parses it as assembly text.
func LoadProgramFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadProgram(f)
}

// Compile maps each line's mnemonic through isa to a capability and
// canonicalizes register spellings, producing the HwInstruction
// sequence the pipeline engine consumes.
func Compile(lines []Line, isa ISATable) ([]program.HwInstruction, error) {
	regs := container.New(func(i ident.ID) string { return i.Lower() })

	out := make([]program.HwInstruction, 0, len(lines))
	for _, line := range lines {
		categ, ok := isa.lookup(line.Mnemonic)
		if !ok {
			return nil, &Error{Kind: UndefElem, Text: line.Mnemonic}
		}

		instr := program.HwInstruction{Categ: categ}
		if line.Dest != "" {
			instr.Destination = regs.GetOrInsert(ident.New(line.Dest))
		}

		seen := make(map[string]bool, len(line.Sources))
		for _, src := range line.Sources {
			canon := regs.GetOrInsert(ident.New(src))
			if seen[canon.Lower()] {
				continue
			}
			seen[canon.Lower()] = true
			instr.Sources = append(instr.Sources, canon)
		}
		sort.Sort(ident.ByLower(instr.Sources))

		out = append(out, instr)
	}

	return out, nil
}
