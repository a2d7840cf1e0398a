package seqlisp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reusee/seq/seqvm"
)

// Print renders a value so the reader accepts it back for the
// non-heap forms: numbers, nil, symbols, strings, lists of such, and
// object literals of such.
func Print(v seqvm.Value) string {
	var sb strings.Builder
	printValue(&sb, v)
	return sb.String()
}

func printValue(sb *strings.Builder, v seqvm.Value) {
	switch v.Kind {

	case seqvm.KindNil:
		sb.WriteString("nil")

	case seqvm.KindNumber:
		sb.WriteString(strconv.FormatFloat(v.Num, 'f', -1, 64))

	case seqvm.KindSymbol:
		sb.WriteString(v.Sym)

	case seqvm.KindString:
		printString(sb, v.Heap.(*seqvm.String).Bytes)

	case seqvm.KindList:
		sb.WriteByte('(')
		for i, item := range v.Heap.(*seqvm.List).Items {
			if i > 0 {
				sb.WriteByte(' ')
			}
			printValue(sb, item)
		}
		sb.WriteByte(')')

	case seqvm.KindVector:
		sb.WriteString("(#")
		for _, f := range v.Heap.(*seqvm.Vector).Floats {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
		}
		sb.WriteByte(')')

	case seqvm.KindCons:
		printCons(sb, v.Heap.(*seqvm.Cons))

	case seqvm.KindObject:
		sb.WriteByte('{')
		first := true
		for key, val := range v.Heap.(*seqvm.Object).Fields {
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			sb.WriteString(key)
			sb.WriteByte(' ')
			printValue(sb, val)
		}
		sb.WriteByte('}')

	case seqvm.KindObjectLiteral:
		sb.WriteByte('{')
		for i, entry := range v.Lit.Entries {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if entry.Spread {
				sb.WriteString("... ")
				printValue(sb, entry.Expr)
				continue
			}
			sb.WriteString(entry.Key)
			sb.WriteByte(' ')
			printValue(sb, entry.Expr)
		}
		sb.WriteByte('}')

	case seqvm.KindQuote:
		sb.WriteString("#<quote ")
		printValue(sb, v.Heap.(*seqvm.Quote).Inner)
		sb.WriteByte('>')

	case seqvm.KindClosure:
		sb.WriteString("#<closure>")

	case seqvm.KindFuncDef:
		sb.WriteString("#<funcdef>")

	case seqvm.KindNative:
		fmt.Fprintf(sb, "#<native %s>", v.Native.Name)

	default:
		sb.WriteString("#<invalid>")
	}
}

// printCons renders nil-terminated chains as lists and improper pairs
// dotted.
func printCons(sb *strings.Builder, c *seqvm.Cons) {
	sb.WriteByte('(')
	for {
		printValue(sb, c.Car)
		switch c.Cdr.Kind {
		case seqvm.KindNil:
			sb.WriteByte(')')
			return
		case seqvm.KindCons:
			sb.WriteByte(' ')
			c = c.Cdr.Heap.(*seqvm.Cons)
		default:
			sb.WriteString(" . ")
			printValue(sb, c.Cdr)
			sb.WriteByte(')')
			return
		}
	}
}

func printString(sb *strings.Builder, bytes []byte) {
	sb.WriteByte('"')
	for _, b := range bytes {
		switch b {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('"')
}
