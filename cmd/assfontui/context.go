package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"assfontui/internal/api"
	"assfontui/internal/config"
	"assfontui/internal/logging"
)

type commandContext struct {
	envFlag *string

	envOnce   sync.Once
	env       *config.Environment
	envPath   string
	envExists bool
	envErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	serviceOnce sync.Once
	service     *api.Service
}

func newCommandContext(envFlag *string) *commandContext {
	return &commandContext{envFlag: envFlag}
}

func (c *commandContext) ensureEnvironment() (*config.Environment, error) {
	c.envOnce.Do(func() {
		var path string
		if c.envFlag != nil {
			path = strings.TrimSpace(*c.envFlag)
		}
		env, resolved, exists, err := config.LoadEnvironment(path)
		if err != nil {
			c.envErr = fmt.Errorf("load environment: %w", err)
			return
		}
		c.env = env
		c.envPath = resolved
		c.envExists = exists
	})
	return c.env, c.envErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		env, err := c.ensureEnvironment()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromEnvironment(env)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureService() (*api.Service, error) {
	env, err := c.ensureEnvironment()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	c.serviceOnce.Do(func() {
		c.service = api.NewService(env, api.WithLogger(logger))
	})
	return c.service, nil
}

func shouldSkipEnvironment(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipEnvironmentLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
