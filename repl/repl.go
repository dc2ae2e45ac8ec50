package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"crnc/internal/errors"
	"crnc/internal/frontend"
	"crnc/internal/ir"
	"crnc/internal/kinetic"
)

const PROMPT = "crn> "

var log = commonlog.GetLogger("crnc.repl")

var letPattern = regexp.MustCompile(`^let\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*(.+)$`)

// Session evaluates formulas. Names bound with let override the values
// stored in the attached model, if any.
type Session struct {
	net      *ir.Network
	bindings map[string]float64
}

// NewSession creates a session. net may be nil.
func NewSession(net *ir.Network) *Session {
	return &Session{net: net, bindings: make(map[string]float64)}
}

// Bind sets name to value for later formulas.
func (s *Session) Bind(name string, value float64) {
	s.bindings[name] = value
}

// Eval runs one input line and returns the text to show.
//
//	let k = 2 * 3        binds k
//	k * A / (1 + A)      prints the canonical form and its value
//	:bindings            lists bound names
func (s *Session) Eval(line string) (string, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return "", nil
	case line == ":bindings":
		return s.listBindings(), nil
	}

	if m := letPattern.FindStringSubmatch(line); m != nil {
		_, v, err := s.evaluate(m[2])
		if err != nil {
			return "", err
		}
		s.bindings[m[1]] = v
		log.Debugf("bound %s = %s", m[1], formatValue(v))
		return fmt.Sprintf("%s = %s", m[1], formatValue(v)), nil
	}

	law, v, err := s.evaluate(line)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", kinetic.ToCanonicalString(law), formatValue(v)), nil
}

func (s *Session) evaluate(source string) (kinetic.Law, float64, error) {
	law, err := frontend.ParseLaw(source, s.resolver(), s.net)
	if err != nil {
		return nil, 0, err
	}

	var env kinetic.Env
	if s.net != nil {
		env = s.net
	}
	for _, id := range kinetic.Dependencies(law).IDs() {
		if _, bound := s.bindings[id]; bound {
			continue
		}
		if s.net == nil || !s.hasValue(id) {
			return nil, 0, errors.New(errors.KindUnresolvedSymbol, id, "'%s' has no value (bind it with: let %s = ...)", id, id)
		}
	}

	v, err := kinetic.Evaluate(law, env, s.bindings, 0)
	if err != nil {
		return nil, 0, err
	}
	return law, v, nil
}

// resolver prefers model entities, then bound names.
func (s *Session) resolver() frontend.Resolver {
	if s.net == nil {
		return frontend.FreeSymbols
	}
	model := frontend.NetworkResolver(s.net)
	return func(name string) kinetic.Law {
		if law := model(name); law != nil {
			return law
		}
		if _, ok := s.bindings[name]; ok {
			return kinetic.NewSymbolRef(name)
		}
		return nil
	}
}

func (s *Session) hasValue(id string) bool {
	if _, ok := s.net.SpeciesValue(id); ok {
		return true
	}
	if _, ok := s.net.CompartmentValue(id); ok {
		return true
	}
	_, ok := s.net.SymbolValue(id)
	return ok
}

func (s *Session) listBindings() string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s = %s", name, formatValue(s.bindings[name]))
	}
	return strings.Join(lines, "\n")
}

// Completions returns the words that start with prefix's last token.
func (s *Session) Completions(line string) []string {
	start := strings.LastIndexAny(line, " \t()+-*/^,<>=!&|") + 1
	head, word := line[:start], line[start:]

	words := append(kinetic.FunctionNames(), kinetic.BuiltinSymbols()...)
	words = append(words, "let")
	for name := range s.bindings {
		words = append(words, name)
	}
	if s.net != nil {
		for _, sym := range s.net.Symbols.GenerateListOfSymbols() {
			words = append(words, sym.ID)
		}
		for _, sp := range s.net.ListSpecies() {
			words = append(words, sp.ID)
		}
	}
	sort.Strings(words)

	var matches []string
	for _, w := range words {
		if strings.HasPrefix(w, word) && (len(matches) == 0 || matches[len(matches)-1] != head+w) {
			matches = append(matches, head+w)
		}
	}
	return matches
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Start runs an interactive session on the terminal with line editing and
// history. It returns on Ctrl+D or "exit".
func Start(out io.Writer, session *Session) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(session.Completions)

	historyFile := filepath.Join(os.TempDir(), ".crnc_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(out, "Type a formula, 'let name = formula', ':bindings' or 'exit'")

	for {
		input, err := line.Prompt(PROMPT)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(out, "Error reading input: %v\n", err)
			}
			return
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "exit" || trimmed == "quit" {
			return
		}
		if trimmed != "" {
			line.AppendHistory(input)
		}

		result, err := session.Eval(trimmed)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
}
