package app

import (
	"fmt"

	"github.com/allisson/sampletrack/internal/database"
	sampleHTTP "github.com/allisson/sampletrack/internal/sample/http"
	sampleRepository "github.com/allisson/sampletrack/internal/sample/repository"
	sampleUseCase "github.com/allisson/sampletrack/internal/sample/usecase"
)

// SampleRepository returns the sample repository for the configured driver. It
// also serves as the client directory used by notifications.
func (c *Container) SampleRepository() (sampleStore, error) {
	var err error
	c.sampleRepositoryInit.Do(func() {
		c.sampleRepository, err = c.initSampleRepository()
		if err != nil {
			c.initErrors["sampleRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sampleRepository"]; exists {
		return nil, storedErr
	}
	return c.sampleRepository, nil
}

// SampleUseCase returns the sample registration use case.
func (c *Container) SampleUseCase() (sampleUseCase.SampleUseCase, error) {
	var err error
	c.sampleUseCaseInit.Do(func() {
		c.sampleUseCase, err = c.initSampleUseCase()
		if err != nil {
			c.initErrors["sampleUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sampleUseCase"]; exists {
		return nil, storedErr
	}
	return c.sampleUseCase, nil
}

// TransitionUseCase returns the status transition use case.
func (c *Container) TransitionUseCase() (sampleUseCase.TransitionUseCase, error) {
	var err error
	c.transitionUseCaseInit.Do(func() {
		c.transitionUseCase, err = c.initTransitionUseCase()
		if err != nil {
			c.initErrors["transitionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transitionUseCase"]; exists {
		return nil, storedErr
	}
	return c.transitionUseCase, nil
}

// StatusUseCase returns the status change orchestrator wrapped with metrics.
func (c *Container) StatusUseCase() (sampleUseCase.StatusUseCase, error) {
	var err error
	c.statusUseCaseInit.Do(func() {
		c.statusUseCase, err = c.initStatusUseCase()
		if err != nil {
			c.initErrors["statusUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["statusUseCase"]; exists {
		return nil, storedErr
	}
	return c.statusUseCase, nil
}

// SampleHandler returns the HTTP handler for samples.
func (c *Container) SampleHandler() (*sampleHTTP.SampleHandler, error) {
	var err error
	c.sampleHandlerInit.Do(func() {
		c.sampleHandler, err = c.initSampleHandler()
		if err != nil {
			c.initErrors["sampleHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sampleHandler"]; exists {
		return nil, storedErr
	}
	return c.sampleHandler, nil
}

func (c *Container) initSampleRepository() (sampleStore, error) {
	if c.usesMemory() {
		return sampleRepository.NewMemorySampleRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for sample repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == "mysql" {
		return sampleRepository.NewMySQLSampleRepository(db), nil
	}
	return sampleRepository.NewPostgreSQLSampleRepository(db), nil
}

func (c *Container) initSampleUseCase() (sampleUseCase.SampleUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for sample use case: %w", err)
	}

	repository, err := c.SampleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get sample repository for sample use case: %w", err)
	}

	return sampleUseCase.NewSampleUseCase(txManager, repository), nil
}

func (c *Container) initTransitionUseCase() (sampleUseCase.TransitionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for transition use case: %w", err)
	}

	repository, err := c.SampleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get sample repository for transition use case: %w", err)
	}

	return sampleUseCase.NewTransitionUseCase(txManager, repository, c.config.TransitionMaxAttempts, c.Logger()), nil
}

func (c *Container) initStatusUseCase() (sampleUseCase.StatusUseCase, error) {
	transition, err := c.TransitionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get transition use case for status use case: %w", err)
	}

	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for status use case: %w", err)
	}

	dispatcher, err := c.DispatchUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatch use case for status use case: %w", err)
	}

	directory, err := c.SampleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get sample repository for status use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for status use case: %w", err)
	}

	useCase := sampleUseCase.NewStatusUseCase(
		transition,
		audit,
		dispatcher,
		directory,
		c.config.OrchestrationTimeout,
		c.Logger(),
	)
	return sampleUseCase.NewStatusUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initSampleHandler() (*sampleHTTP.SampleHandler, error) {
	samples, err := c.SampleUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get sample use case for sample handler: %w", err)
	}

	status, err := c.StatusUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get status use case for sample handler: %w", err)
	}

	return sampleHTTP.NewSampleHandler(samples, status, c.Logger()), nil
}
