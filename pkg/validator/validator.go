package validator

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	PlatformModes = []string{"mobile", "emulator", "mixed"}
	GameplayModes = []string{"battle_royale", "clash_squad"}
)

var registerOnce sync.Once

// Register installs the arena-specific tags on gin's binding validator.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("platform", oneOfList(PlatformModes))
		_ = v.RegisterValidation("gameplay", oneOfList(GameplayModes))
	})
}

func oneOfList(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, a := range allowed {
			if a == s {
				return true
			}
		}
		return false
	}
}
