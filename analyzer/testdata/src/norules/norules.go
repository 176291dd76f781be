package norules

import "bar"

type T struct {
	b *bar.Bar
}

func (t *T) Do() {
	t.b.ObsoleteMethod(1, "n")
}
