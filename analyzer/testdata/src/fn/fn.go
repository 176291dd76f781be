package fn

import "bar"

func Use(b *bar.Bar) {
	b.ObsoleteMethod(1, "y") // want `call to bar\.Bar\.ObsoleteMethod is obsolete`
}

var m = (*bar.Bar).ObsoleteMethod

func Indirect(b *bar.Bar) {
	m(b, 2, "z")
}
