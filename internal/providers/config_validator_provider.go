package providers

import (
	"errors"
	"guessd/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	game := cv.conf.Game
	if game.MaxBasePoints > 0 && game.MinBasePoints > game.MaxBasePoints {
		return errors.New("game.minBasePoints must not exceed game.maxBasePoints")
	}
	if cv.conf.Telegram.Enabled && cv.conf.Telegram.Token == "" {
		return errors.New("telegram.token is required when telegram is enabled")
	}
	return nil
}
