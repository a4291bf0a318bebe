package stealth

import "github.com/samber/do/v2"

// NewService is the samber/do constructor wiring the process-wide wallet
// pepper into the stealth identity component.
func NewService(i do.Injector) (*Service, error) {
	pepper := do.MustInvokeNamed[string](i, "wallet-pepper")

	return New([]byte(pepper)), nil
}
