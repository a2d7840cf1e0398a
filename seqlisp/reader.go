package seqlisp

import (
	"fmt"
	"io"

	"github.com/reusee/seq/seqvm"
)

// Reader assembles tokens into expression trees. The values it
// produces are plain allocations owned by the compiled code, not
// registered with any GC.
type Reader struct {
	tokenizer *Tokenizer
}

func NewReader(source io.Reader) *Reader {
	return &Reader{
		tokenizer: NewTokenizer(source),
	}
}

// Read returns the next top-level form, or io.EOF when the input is
// exhausted.
func (r *Reader) Read() (seqvm.Value, error) {
	tok, err := r.tokenizer.Current()
	if err != nil {
		return seqvm.Nil, err
	}
	if tok.Kind == TokenEOF {
		return seqvm.Nil, io.EOF
	}
	return r.readForm()
}

func (r *Reader) readForm() (seqvm.Value, error) {
	tok, err := r.tokenizer.Current()
	if err != nil {
		return seqvm.Nil, err
	}
	r.tokenizer.Consume()

	switch tok.Kind {

	case TokenNumber:
		return seqvm.NumberValue(tok.Num), nil

	case TokenString:
		s := &seqvm.String{Bytes: []byte(tok.Text)}
		return s.Value(), nil

	case TokenSymbol:
		return seqvm.SymbolValue(tok.Text), nil

	case TokenOpenParen:
		return r.readList(tok.Pos)

	case TokenOpenBrace:
		return r.readObjectLiteral(tok.Pos)

	case TokenEOF:
		return seqvm.Nil, WithPos(ErrUnexpectedEOF, tok.Pos)
	}

	return seqvm.Nil, WithPos(fmt.Errorf("%w: %q", ErrInvalidExpression, tok.Text), tok.Pos)
}

func (r *Reader) readList(startPos Pos) (seqvm.Value, error) {
	var items []seqvm.Value
	for {
		tok, err := r.tokenizer.Current()
		if err != nil {
			return seqvm.Nil, err
		}
		switch tok.Kind {
		case TokenCloseParen:
			r.tokenizer.Consume()
			list := &seqvm.List{Items: items}
			return list.Value(), nil
		case TokenEOF:
			return seqvm.Nil, WithPos(fmt.Errorf("%w: unclosed list", ErrUnexpectedEOF), startPos)
		}
		item, err := r.readForm()
		if err != nil {
			return seqvm.Nil, err
		}
		items = append(items, item)
	}
}

// readObjectLiteral reads { KEY EXPR ... } bodies. The three-dot
// symbol introduces a spread entry.
func (r *Reader) readObjectLiteral(startPos Pos) (seqvm.Value, error) {
	lit := &seqvm.ObjectLiteral{}
	for {
		tok, err := r.tokenizer.Current()
		if err != nil {
			return seqvm.Nil, err
		}
		switch tok.Kind {

		case TokenCloseBrace:
			r.tokenizer.Consume()
			return lit.Value(), nil

		case TokenEOF:
			return seqvm.Nil, WithPos(fmt.Errorf("%w: unclosed object literal", ErrUnexpectedEOF), startPos)

		case TokenSymbol:
			r.tokenizer.Consume()
			if tok.Text == "..." {
				expr, err := r.readForm()
				if err != nil {
					return seqvm.Nil, err
				}
				lit.Entries = append(lit.Entries, seqvm.ObjectEntry{
					Expr:   expr,
					Spread: true,
				})
				continue
			}
			expr, err := r.readForm()
			if err != nil {
				return seqvm.Nil, err
			}
			lit.Entries = append(lit.Entries, seqvm.ObjectEntry{
				Key:  tok.Text,
				Expr: expr,
			})

		default:
			return seqvm.Nil, WithPos(fmt.Errorf("%w: %q", ErrInvalidObjectKey, tok.Text), tok.Pos)
		}
	}
}
