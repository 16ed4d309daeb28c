package db

// TxOpKind discriminates the write operations allowed inside a transaction.
type TxOpKind int

const (
	// TxSet stores Value at Key.
	TxSet TxOpKind = iota
	// TxDel removes Key.
	TxDel
	// TxHSet sets Fields on the hash at Key.
	TxHSet
	// TxZAdd adds Member with Score to the sorted set at Key.
	TxZAdd
	// TxZRem removes Member from the sorted set at Key.
	TxZRem
)

// TxOp is one write inside an atomic transaction.
type TxOp struct {
	Kind   TxOpKind
	Key    string
	Value  []byte
	Fields map[string]string
	Member string
	Score  float64
}

// SetOp builds a TxSet operation.
func SetOp(key string, value []byte) TxOp {
	return TxOp{Kind: TxSet, Key: key, Value: value}
}

// DelOp builds a TxDel operation.
func DelOp(key string) TxOp {
	return TxOp{Kind: TxDel, Key: key}
}

// HSetOp builds a TxHSet operation.
func HSetOp(key string, fields map[string]string) TxOp {
	return TxOp{Kind: TxHSet, Key: key, Fields: fields}
}

// ZAddOp builds a TxZAdd operation.
func ZAddOp(key string, score float64, member string) TxOp {
	return TxOp{Kind: TxZAdd, Key: key, Score: score, Member: member}
}

// ZRemOp builds a TxZRem operation.
func ZRemOp(key, member string) TxOp {
	return TxOp{Kind: TxZRem, Key: key, Member: member}
}
