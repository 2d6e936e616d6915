package app

import (
	"context"
	"encoding/base64"
	"fmt"

	auditHTTP "github.com/allisson/sampletrack/internal/audit/http"
	auditRepository "github.com/allisson/sampletrack/internal/audit/repository"
	auditService "github.com/allisson/sampletrack/internal/audit/service"
	auditUseCase "github.com/allisson/sampletrack/internal/audit/usecase"
	"github.com/allisson/sampletrack/internal/database"
	sequenceRepository "github.com/allisson/sampletrack/internal/sequence/repository"
	sequenceUseCase "github.com/allisson/sampletrack/internal/sequence/usecase"
)

// CounterRepository returns the sequence counter repository for the configured driver.
func (c *Container) CounterRepository() (sequenceUseCase.CounterRepository, error) {
	var err error
	c.counterRepositoryInit.Do(func() {
		c.counterRepository, err = c.initCounterRepository()
		if err != nil {
			c.initErrors["counterRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["counterRepository"]; exists {
		return nil, storedErr
	}
	return c.counterRepository, nil
}

// SequenceUseCase returns the sequence use case.
func (c *Container) SequenceUseCase() (sequenceUseCase.SequenceUseCase, error) {
	var err error
	c.sequenceUseCaseInit.Do(func() {
		c.sequenceUseCase, err = c.initSequenceUseCase()
		if err != nil {
			c.initErrors["sequenceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sequenceUseCase"]; exists {
		return nil, storedErr
	}
	return c.sequenceUseCase, nil
}

// AuditRepository returns the audit record repository for the configured driver.
func (c *Container) AuditRepository() (auditUseCase.AuditRepository, error) {
	var err error
	c.auditRepositoryInit.Do(func() {
		c.auditRepository, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepository"]; exists {
		return nil, storedErr
	}
	return c.auditRepository, nil
}

// AuditSigner returns the audit signer, or nil when AUDIT_SIGNING_KEY is empty.
func (c *Container) AuditSigner() (auditService.AuditSigner, error) {
	var err error
	c.auditSignerInit.Do(func() {
		c.auditSigner, err = c.initAuditSigner()
		if err != nil {
			c.initErrors["auditSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditSigner"]; exists {
		return nil, storedErr
	}
	return c.auditSigner, nil
}

// AuditPublisher returns the audit publisher, or nil when AUDIT_PUBLISH_URL is empty.
func (c *Container) AuditPublisher() (auditService.AuditPublisher, error) {
	var err error
	c.auditPublisherInit.Do(func() {
		c.auditPublisher, err = c.initAuditPublisher()
		if err != nil {
			c.initErrors["auditPublisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditPublisher"]; exists {
		return nil, storedErr
	}
	return c.auditPublisher, nil
}

// AuditUseCase returns the audit use case.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// AuditHandler returns the HTTP handler for audit record listing.
func (c *Container) AuditHandler() (*auditHTTP.AuditHandler, error) {
	var err error
	c.auditHandlerInit.Do(func() {
		c.auditHandler, err = c.initAuditHandler()
		if err != nil {
			c.initErrors["auditHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.auditHandler, nil
}

func (c *Container) initCounterRepository() (sequenceUseCase.CounterRepository, error) {
	if c.usesMemory() {
		return sequenceRepository.NewMemoryCounterRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for counter repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == "mysql" {
		return sequenceRepository.NewMySQLCounterRepository(db), nil
	}
	return sequenceRepository.NewPostgreSQLCounterRepository(db), nil
}

func (c *Container) initSequenceUseCase() (sequenceUseCase.SequenceUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for sequence use case: %w", err)
	}

	counterRepository, err := c.CounterRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get counter repository for sequence use case: %w", err)
	}

	return sequenceUseCase.NewSequenceUseCase(txManager, counterRepository, nil), nil
}

func (c *Container) initAuditRepository() (auditUseCase.AuditRepository, error) {
	if c.usesMemory() {
		return auditRepository.NewMemoryAuditRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	dialect, err := database.Dialect(c.config.DBDriver)
	if err != nil {
		return nil, err
	}
	if dialect == "mysql" {
		return auditRepository.NewMySQLAuditRepository(db), nil
	}
	return auditRepository.NewPostgreSQLAuditRepository(db), nil
}

func (c *Container) initAuditSigner() (auditService.AuditSigner, error) {
	if c.config.AuditSigningKey == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(c.config.AuditSigningKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode AUDIT_SIGNING_KEY: %w", err)
	}

	signer, err := auditService.NewAuditSigner(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit signer: %w", err)
	}
	return signer, nil
}

func (c *Container) initAuditPublisher() (auditService.AuditPublisher, error) {
	if c.config.AuditPublishURL == "" {
		return nil, nil
	}

	publisher, err := auditService.NewPubSubPublisher(context.Background(), c.config.AuditPublishURL)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

func (c *Container) initAuditUseCase() (auditUseCase.AuditUseCase, error) {
	sequence, err := c.SequenceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get sequence use case for audit use case: %w", err)
	}

	repository, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	signer, err := c.AuditSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit signer for audit use case: %w", err)
	}

	publisher, err := c.AuditPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit publisher for audit use case: %w", err)
	}

	return auditUseCase.NewAuditUseCase(
		auditUseCase.Config{
			IDPrefix:      c.config.AuditIDPrefix,
			IncludePeriod: c.config.AuditIDIncludePeriod,
		},
		sequence,
		repository,
		signer,
		publisher,
		c.Logger(),
	), nil
}

func (c *Container) initAuditHandler() (*auditHTTP.AuditHandler, error) {
	useCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for audit handler: %w", err)
	}
	return auditHTTP.NewAuditHandler(useCase, c.Logger()), nil
}
