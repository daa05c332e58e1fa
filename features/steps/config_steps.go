//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"media-viewer/cmd"
	"media-viewer/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	dir        string
	configPath string
	cfg        *config.Config
	err        error
}

// SharedConfigContext is reset after each scenario via After hook
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext.dir != "" {
			os.RemoveAll(SharedConfigContext.dir)
		}
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^"([^"]*)" should be "([^"]*)"$`, keyShouldBe)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, iSetTo)
	ctx.Step(`^I should receive an invalid value error$`, iShouldReceiveAnInvalidValueError)
}

func noConfigurationFileExists() error {
	dir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		return err
	}
	c := SharedConfigContext
	c.dir = dir
	c.configPath = filepath.Join(dir, "config", "config.yaml")
	c.cfg = config.Default()
	return nil
}

func iLoadTheConfiguration() error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func keyShouldBe(key, want string) error {
	c := SharedConfigContext
	var out bytes.Buffer
	if err := cmd.RunConfigGetWithDependencies(c.cfg, c.configPath, key, &out); err != nil {
		return err
	}
	if got := bytes.TrimSpace(out.Bytes()); string(got) != want {
		return fmt.Errorf("expected %s = %q, got %q", key, want, got)
	}
	return nil
}

func iSetTo(key, value string) error {
	c := SharedConfigContext
	c.err = cmd.RunConfigSetWithDependencies(c.cfg, c.configPath, key, value, &bytes.Buffer{})
	return nil
}

func iShouldReceiveAnInvalidValueError() error {
	if !errors.Is(SharedConfigContext.err, config.ErrInvalidValue) {
		return fmt.Errorf("expected invalid value error, got %v", SharedConfigContext.err)
	}
	return nil
}
