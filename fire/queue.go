package fire

// Token is one owed pattern firing. Seq increases by one per enqueued token
// and Pull identifies the accepted trigger pull that produced it.
type Token struct {
	Seq  uint64
	Pull uint64
}

// queue is a FIFO of tokens.
type queue struct {
	items []Token
	head  int
}

func (q *queue) push(tok Token) {
	q.items = append(q.items, tok)
}

func (q *queue) pop() (Token, bool) {
	if q.len() == 0 {
		return Token{}, false
	}
	tok := q.items[q.head]
	q.head++
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= 64 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return tok, true
}

func (q *queue) peek() (Token, bool) {
	if q.len() == 0 {
		return Token{}, false
	}
	return q.items[q.head], true
}

func (q *queue) len() int {
	return len(q.items) - q.head
}
