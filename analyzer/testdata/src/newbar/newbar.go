package newbar

type NewBar struct{}

func (b *NewBar) NewMethod(newParam int) {}
