package ipod

import "fmt"

// Layout 判别值对应的负载布局：解码函数 + 编码前的变体匹配检查
type Layout[V any] struct {
	Name    string
	Decode  func(r *Reader) (V, error)
	Accepts func(v V) bool
}

// Table 判别值 -> 布局 的只读分派表，每一层（模式、AiR 命令）各实例化一次
type Table[K ~uint8 | ~uint16, V any] struct {
	name    string
	layouts map[K]Layout[V]
}

// NewTable 创建分派表；layouts 在创建后不再修改，可并发读取
func NewTable[K ~uint8 | ~uint16, V any](name string, layouts map[K]Layout[V]) *Table[K, V] {
	return &Table[K, V]{name: name, layouts: layouts}
}

// Lookup 查找布局
func (t *Table[K, V]) Lookup(k K) (Layout[V], bool) {
	l, ok := t.layouts[k]
	return l, ok
}

// Name 返回判别值的可读名称，未登记时返回十六进制
func (t *Table[K, V]) Name(k K) string {
	if l, ok := t.layouts[k]; ok {
		return l.Name
	}
	return fmt.Sprintf("0x%04X", uint16(k))
}

// Len 登记项数量
func (t *Table[K, V]) Len() int { return len(t.layouts) }

// Decode 按判别值解码 r 中的负载。r 必须已被外层长度限定，
// 布局解码后区域内仍有剩余字节视为非法帧。
func (t *Table[K, V]) Decode(k K, r *Reader) (V, error) {
	var zero V
	l, ok := t.layouts[k]
	if !ok {
		return zero, &UnknownDiscriminantError{Table: t.name, Value: uint16(k)}
	}
	v, err := l.Decode(r)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", l.Name, err)
	}
	if r.Len() != 0 {
		return zero, fmt.Errorf("%w: %d trailing bytes after %s", ErrInvalidFrame, r.Len(), l.Name)
	}
	return v, nil
}

// Check 编码前检查判别值已登记且变体与布局匹配
func (t *Table[K, V]) Check(k K, v V) error {
	l, ok := t.layouts[k]
	if !ok {
		return &UnknownDiscriminantError{Table: t.name, Value: uint16(k)}
	}
	if l.Accepts != nil && !l.Accepts(v) {
		return fmt.Errorf("%w: %T does not match layout %s", ErrInvalidFrame, v, l.Name)
	}
	return nil
}
