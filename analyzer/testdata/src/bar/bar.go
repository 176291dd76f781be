package bar

type Bar struct{}

func (b *Bar) ObsoleteMethod(param1 int, label string) {}

func (b *Bar) OtherMethod() {}
