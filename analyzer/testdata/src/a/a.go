package a

import "bar"

type Foo struct {
	bar *bar.Bar
}

func (f *Foo) Do() {
	f.bar.ObsoleteMethod(123, "x") // want `call to bar\.Bar\.ObsoleteMethod is obsolete; use newbar\.NewBar\.NewMethod`
	f.bar.OtherMethod()
}
