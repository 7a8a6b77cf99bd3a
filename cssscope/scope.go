package cssscope

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// ErrStyleParse is returned by Rewrite for style text that can not be parsed.
var ErrStyleParse = errors.New("malformed style rules")

var (
	rootSelectorRe = regexp.MustCompile(`(?i)^(html|body|\*|:root)$`)
	rootPrefixRe   = regexp.MustCompile(`(?i)^(html|body)\s+`)
)

// Conditional group rules whose nested rules are scoped. Other block at-rules
// (@font-face, @page, @keyframes) are copied unchanged.
var groupRules = map[string]bool{
	"@media":    true,
	"@supports": true,
	"@document": true,
	"@layer":    true,
}

// Isolator confines style rules to one scope container.
type Isolator struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Isolator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Isolator{log: log.Named("cssscope")}
}

// Isolate rewrites rules so they only apply inside scope. Style text that
// fails to parse is returned unchanged.
func (i *Isolator) Isolate(rules, scope string) string {
	out, err := Rewrite(rules, scope)
	if err != nil {
		i.log.Debug("Style left unscoped", zap.String("scope", scope), zap.Error(err))
		return rules
	}
	return out
}

// ScopeSelector rewrites a comma separated selector list for scope.
func ScopeSelector(list, scope string) string {
	parts := splitSelectors(list)
	for i, s := range parts {
		parts[i] = scopeOne(strings.TrimSpace(s), scope)
	}
	return strings.Join(parts, ", ")
}

// splitSelectors splits list on commas that are not nested in parentheses,
// brackets or functional pseudo-classes like :not(.a, .b).
func splitSelectors(list string) []string {
	l := css.NewLexer(parse.NewInputString(list))
	var (
		parts []string
		sb    strings.Builder
		depth int
	)
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return append(parts, sb.String())
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.CommaToken:
			if depth == 0 {
				parts = append(parts, sb.String())
				sb.Reset()
				continue
			}
		}
		sb.Write(data)
	}
}

func scopeOne(sel, scope string) string {
	switch {
	case sel == scope || strings.HasPrefix(sel, scope+" "):
		return sel
	case rootSelectorRe.MatchString(sel):
		return scope
	case rootPrefixRe.MatchString(sel):
		return scope + " " + rootPrefixRe.ReplaceAllString(sel, "")
	default:
		return scope + " " + sel
	}
}

// Rewrite is the strict form of Isolate: it reports malformed input instead
// of falling back.
func Rewrite(rules, scope string) (string, error) {
	if strings.TrimSpace(rules) == "" {
		return "", nil
	}
	if err := balanced(rules); err != nil {
		return "", err
	}
	w := &writer{
		p:     css.NewParser(parse.NewInput(bytes.NewBufferString(rules)), false),
		scope: scope,
	}
	if err := w.block(true, 0); err != nil {
		return "", err
	}
	return strings.TrimRight(w.sb.String(), "\n"), nil
}

type writer struct {
	p     *css.Parser
	scope string
	sb    strings.Builder
}

// block copies rules until the end of the enclosing at-rule, or the end of
// input at depth 0.
func (w *writer) block(scoped bool, depth int) error {
	var group []string
	for {
		gt, _, data := w.p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := w.p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %v", ErrStyleParse, err)
			}
			if depth > 0 {
				return fmt.Errorf("%w: unterminated block", ErrStyleParse)
			}
			return nil
		case css.EndAtRuleGrammar:
			return nil
		case css.CommentGrammar:
		case css.AtRuleGrammar:
			w.sb.WriteString(join(string(data), w.p.Values()) + ";\n")
		case css.BeginAtRuleGrammar:
			name := strings.ToLower(string(data))
			w.sb.WriteString(join(name, w.p.Values()) + " {\n")
			if err := w.block(scoped && groupRules[name], depth+1); err != nil {
				return err
			}
			w.sb.WriteString("}\n")
		case css.QualifiedRuleGrammar:
			group = append(group, selectorText(data, w.p.Values()))
		case css.BeginRulesetGrammar:
			sel := strings.Join(append(group, selectorText(data, w.p.Values())), ", ")
			group = nil
			if scoped {
				sel = ScopeSelector(sel, w.scope)
			}
			if err := w.ruleset(sel); err != nil {
				return err
			}
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			// bare declarations of @font-face and @page
			w.sb.WriteString(declaration(data, w.p.Values()) + "\n")
		case css.EndRulesetGrammar:
			return fmt.Errorf("%w: unexpected end of rule", ErrStyleParse)
		}
	}
}

func (w *writer) ruleset(sel string) error {
	decls := make([]string, 0, 4)
	for {
		gt, _, data := w.p.Next()
		switch gt {
		case css.EndRulesetGrammar:
			w.sb.WriteString(sel + " { " + strings.Join(decls, " "))
			if len(decls) > 0 {
				w.sb.WriteString(" ")
			}
			w.sb.WriteString("}\n")
			return nil
		case css.ErrorGrammar:
			if err := w.p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %v", ErrStyleParse, err)
			}
			return fmt.Errorf("%w: unterminated rule %q", ErrStyleParse, sel)
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, declaration(data, w.p.Values()))
		}
	}
}

func declaration(name []byte, values []css.Token) string {
	return strings.TrimSpace(string(name)) + ": " + tokens(values) + ";"
}

// selectorText joins the selector tokens of a rule, data + values.
func selectorText(data []byte, values []css.Token) string {
	return strings.TrimSpace(string(data) + tokens(values))
}

func join(head string, values []css.Token) string {
	if rest := tokens(values); rest != "" {
		return head + " " + rest
	}
	return head
}

// tokens copies token data unchanged. Whitespace tokens become one space so
// strings and attribute values keep their content.
func tokens(values []css.Token) string {
	var sb strings.Builder
	for _, v := range values {
		if v.TokenType == css.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}

// balanced checks braces outside of strings and comments.
func balanced(s string) error {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return fmt.Errorf("%w: unterminated comment", ErrStyleParse)
			}
			i += end + 3
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected '}' at offset %d", ErrStyleParse, i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: %d unclosed blocks", ErrStyleParse, depth)
	}
	if quote != 0 {
		return fmt.Errorf("%w: unterminated string", ErrStyleParse)
	}
	return nil
}
