package app

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	accessHTTP "github.com/allisson/authz/internal/access/http"
	accessRepository "github.com/allisson/authz/internal/access/repository"
	accessUseCase "github.com/allisson/authz/internal/access/usecase"
)

// accessComponents holds the lazily initialized access control components.
type accessComponents struct {
	capabilityRepo accessUseCase.CapabilityRepository
	roleRepo       accessUseCase.RoleRepository
	grantRepo      accessUseCase.GrantRepository
	assignmentRepo accessUseCase.AssignmentRepository
	templateRepo   accessUseCase.TemplateRepository

	catalogUseCase    accessUseCase.CatalogUseCase
	evaluatorUseCase  accessUseCase.EvaluatorUseCase
	grantUseCase      accessUseCase.GrantUseCase
	templateUseCase   accessUseCase.TemplateUseCase
	customRoleUseCase accessUseCase.CustomRoleUseCase

	capabilityHandler *accessHTTP.CapabilityHandler
	templateHandler   *accessHTTP.TemplateHandler
	customRoleHandler *accessHTTP.CustomRoleHandler

	capabilityRepoInit    sync.Once
	roleRepoInit          sync.Once
	grantRepoInit         sync.Once
	assignmentRepoInit    sync.Once
	templateRepoInit      sync.Once
	catalogUseCaseInit    sync.Once
	evaluatorUseCaseInit  sync.Once
	grantUseCaseInit      sync.Once
	templateUseCaseInit   sync.Once
	customRoleUseCaseInit sync.Once
	capabilityHandlerInit sync.Once
	templateHandlerInit   sync.Once
	customRoleHandlerInit sync.Once
}

// CapabilityRepository returns the capability repository based on database driver.
func (c *Container) CapabilityRepository() (accessUseCase.CapabilityRepository, error) {
	var err error
	c.access.capabilityRepoInit.Do(func() {
		c.access.capabilityRepo, err = c.initCapabilityRepository()
		if err != nil {
			c.initErrors["capabilityRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["capabilityRepo"]; exists {
		return nil, storedErr
	}
	return c.access.capabilityRepo, nil
}

// RoleRepository returns the role repository based on database driver.
func (c *Container) RoleRepository() (accessUseCase.RoleRepository, error) {
	var err error
	c.access.roleRepoInit.Do(func() {
		c.access.roleRepo, err = c.initRoleRepository()
		if err != nil {
			c.initErrors["roleRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleRepo"]; exists {
		return nil, storedErr
	}
	return c.access.roleRepo, nil
}

// GrantRepository returns the grant repository based on database driver.
func (c *Container) GrantRepository() (accessUseCase.GrantRepository, error) {
	var err error
	c.access.grantRepoInit.Do(func() {
		c.access.grantRepo, err = c.initGrantRepository()
		if err != nil {
			c.initErrors["grantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantRepo"]; exists {
		return nil, storedErr
	}
	return c.access.grantRepo, nil
}

// AssignmentRepository returns the assignment repository based on database driver.
func (c *Container) AssignmentRepository() (accessUseCase.AssignmentRepository, error) {
	var err error
	c.access.assignmentRepoInit.Do(func() {
		c.access.assignmentRepo, err = c.initAssignmentRepository()
		if err != nil {
			c.initErrors["assignmentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["assignmentRepo"]; exists {
		return nil, storedErr
	}
	return c.access.assignmentRepo, nil
}

// TemplateRepository returns the template repository based on database driver.
func (c *Container) TemplateRepository() (accessUseCase.TemplateRepository, error) {
	var err error
	c.access.templateRepoInit.Do(func() {
		c.access.templateRepo, err = c.initTemplateRepository()
		if err != nil {
			c.initErrors["templateRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["templateRepo"]; exists {
		return nil, storedErr
	}
	return c.access.templateRepo, nil
}

// CatalogUseCase returns the capability catalog use case.
func (c *Container) CatalogUseCase() (accessUseCase.CatalogUseCase, error) {
	var err error
	c.access.catalogUseCaseInit.Do(func() {
		c.access.catalogUseCase, err = c.initCatalogUseCase()
		if err != nil {
			c.initErrors["catalogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["catalogUseCase"]; exists {
		return nil, storedErr
	}
	return c.access.catalogUseCase, nil
}

// EvaluatorUseCase returns the access evaluation use case.
func (c *Container) EvaluatorUseCase() (accessUseCase.EvaluatorUseCase, error) {
	var err error
	c.access.evaluatorUseCaseInit.Do(func() {
		c.access.evaluatorUseCase, err = c.initEvaluatorUseCase()
		if err != nil {
			c.initErrors["evaluatorUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["evaluatorUseCase"]; exists {
		return nil, storedErr
	}
	return c.access.evaluatorUseCase, nil
}

// GrantUseCase returns the grant mutation use case.
func (c *Container) GrantUseCase() (accessUseCase.GrantUseCase, error) {
	var err error
	c.access.grantUseCaseInit.Do(func() {
		c.access.grantUseCase, err = c.initGrantUseCase()
		if err != nil {
			c.initErrors["grantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantUseCase"]; exists {
		return nil, storedErr
	}
	return c.access.grantUseCase, nil
}

// TemplateUseCase returns the role template use case.
func (c *Container) TemplateUseCase() (accessUseCase.TemplateUseCase, error) {
	var err error
	c.access.templateUseCaseInit.Do(func() {
		c.access.templateUseCase, err = c.initTemplateUseCase()
		if err != nil {
			c.initErrors["templateUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["templateUseCase"]; exists {
		return nil, storedErr
	}
	return c.access.templateUseCase, nil
}

// CustomRoleUseCase returns the custom role management use case.
func (c *Container) CustomRoleUseCase() (accessUseCase.CustomRoleUseCase, error) {
	var err error
	c.access.customRoleUseCaseInit.Do(func() {
		c.access.customRoleUseCase, err = c.initCustomRoleUseCase()
		if err != nil {
			c.initErrors["customRoleUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["customRoleUseCase"]; exists {
		return nil, storedErr
	}
	return c.access.customRoleUseCase, nil
}

// CapabilityHandler returns the HTTP handler for catalog and evaluation endpoints.
func (c *Container) CapabilityHandler() (*accessHTTP.CapabilityHandler, error) {
	var err error
	c.access.capabilityHandlerInit.Do(func() {
		c.access.capabilityHandler, err = c.initCapabilityHandler()
		if err != nil {
			c.initErrors["capabilityHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["capabilityHandler"]; exists {
		return nil, storedErr
	}
	return c.access.capabilityHandler, nil
}

// TemplateHandler returns the HTTP handler for template endpoints.
func (c *Container) TemplateHandler() (*accessHTTP.TemplateHandler, error) {
	var err error
	c.access.templateHandlerInit.Do(func() {
		c.access.templateHandler, err = c.initTemplateHandler()
		if err != nil {
			c.initErrors["templateHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["templateHandler"]; exists {
		return nil, storedErr
	}
	return c.access.templateHandler, nil
}

// CustomRoleHandler returns the HTTP handler for custom role endpoints.
func (c *Container) CustomRoleHandler() (*accessHTTP.CustomRoleHandler, error) {
	var err error
	c.access.customRoleHandlerInit.Do(func() {
		c.access.customRoleHandler, err = c.initCustomRoleHandler()
		if err != nil {
			c.initErrors["customRoleHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["customRoleHandler"]; exists {
		return nil, storedErr
	}
	return c.access.customRoleHandler, nil
}

// initCapabilityRepository creates the capability repository based on the database driver.
func (c *Container) initCapabilityRepository() (accessUseCase.CapabilityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for capability repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLCapabilityRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLCapabilityRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRoleRepository creates the role repository based on the database driver.
func (c *Container) initRoleRepository() (accessUseCase.RoleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for role repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLRoleRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLRoleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initGrantRepository creates the grant repository based on the database driver.
func (c *Container) initGrantRepository() (accessUseCase.GrantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for grant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLGrantRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLGrantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAssignmentRepository creates the assignment repository based on the database driver.
func (c *Container) initAssignmentRepository() (accessUseCase.AssignmentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for assignment repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLAssignmentRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLAssignmentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTemplateRepository creates the template repository based on the database driver.
func (c *Container) initTemplateRepository() (accessUseCase.TemplateRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for template repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLTemplateRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLTemplateRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCatalogUseCase creates the catalog use case with the metrics decorator.
func (c *Container) initCatalogUseCase() (accessUseCase.CatalogUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for catalog use case: %w", err)
	}

	capabilityRepo, err := c.CapabilityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability repository for catalog use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for catalog use case: %w", err)
	}

	useCase := accessUseCase.NewCatalogUseCase(txManager, capabilityRepo)
	return accessUseCase.NewCatalogUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initEvaluatorUseCase creates the evaluator use case with the metrics decorator.
func (c *Container) initEvaluatorUseCase() (accessUseCase.EvaluatorUseCase, error) {
	assignmentRepo, err := c.AssignmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment repository for evaluator use case: %w", err)
	}

	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for evaluator use case: %w", err)
	}

	capabilityRepo, err := c.CapabilityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability repository for evaluator use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for evaluator use case: %w", err)
	}

	useCase := accessUseCase.NewEvaluatorUseCase(assignmentRepo, grantRepo, capabilityRepo)
	return accessUseCase.NewEvaluatorUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initGrantUseCase creates the grant use case.
func (c *Container) initGrantUseCase() (accessUseCase.GrantUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for grant use case: %w", err)
	}

	capabilityRepo, err := c.CapabilityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability repository for grant use case: %w", err)
	}

	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for grant use case: %w", err)
	}

	return accessUseCase.NewGrantUseCase(txManager, capabilityRepo, grantRepo), nil
}

// initTemplateUseCase creates the template use case.
func (c *Container) initTemplateUseCase() (accessUseCase.TemplateUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for template use case: %w", err)
	}

	templateRepo, err := c.TemplateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get template repository for template use case: %w", err)
	}

	return accessUseCase.NewTemplateUseCase(txManager, templateRepo), nil
}

// initCustomRoleUseCase creates the custom role use case with the metrics decorator.
func (c *Container) initCustomRoleUseCase() (accessUseCase.CustomRoleUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for custom role use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for custom role use case: %w", err)
	}

	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for custom role use case: %w", err)
	}

	capabilityRepo, err := c.CapabilityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability repository for custom role use case: %w", err)
	}

	templateRepo, err := c.TemplateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get template repository for custom role use case: %w", err)
	}

	assignmentRepo, err := c.AssignmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment repository for custom role use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for custom role use case: %w", err)
	}

	useCase := accessUseCase.NewCustomRoleUseCase(
		txManager,
		roleRepo,
		grantRepo,
		capabilityRepo,
		templateRepo,
		assignmentRepo,
	)
	return accessUseCase.NewCustomRoleUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initCapabilityHandler creates the capability handler.
func (c *Container) initCapabilityHandler() (*accessHTTP.CapabilityHandler, error) {
	catalogUseCase, err := c.CatalogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog use case for capability handler: %w", err)
	}

	evaluatorUseCase, err := c.EvaluatorUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluator use case for capability handler: %w", err)
	}

	return accessHTTP.NewCapabilityHandler(catalogUseCase, evaluatorUseCase, c.Logger()), nil
}

// initTemplateHandler creates the template handler.
func (c *Container) initTemplateHandler() (*accessHTTP.TemplateHandler, error) {
	templateUseCase, err := c.TemplateUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get template use case for template handler: %w", err)
	}

	return accessHTTP.NewTemplateHandler(templateUseCase, c.Logger()), nil
}

// initCustomRoleHandler creates the custom role handler.
func (c *Container) initCustomRoleHandler() (*accessHTTP.CustomRoleHandler, error) {
	customRoleUseCase, err := c.CustomRoleUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get custom role use case for custom role handler: %w", err)
	}

	grantUseCase, err := c.GrantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant use case for custom role handler: %w", err)
	}

	return accessHTTP.NewCustomRoleHandler(customRoleUseCase, grantUseCase, c.Logger()), nil
}

// accessRoutes resolves the handlers and builds the route registration
// function consumed by the HTTP server setup.
func (c *Container) accessRoutes() (func(router *gin.Engine), error) {
	logger := c.Logger()

	evaluator, err := c.EvaluatorUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluator use case for routes: %w", err)
	}

	capabilityHandler, err := c.CapabilityHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability handler for routes: %w", err)
	}

	templateHandler, err := c.TemplateHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get template handler for routes: %w", err)
	}

	customRoleHandler, err := c.CustomRoleHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get custom role handler for routes: %w", err)
	}

	seedToken := c.config.SeedToken

	return func(router *gin.Engine) {
		requireCatalogView := accessHTTP.RequireCapability(
			evaluator, accessDomain.CapabilityCatalogView, accessDomain.AccessLevelView, logger)
		requireRoleView := accessHTTP.RequireCapability(
			evaluator, accessDomain.CapabilityCustomRoleView, accessDomain.AccessLevelView, logger)
		requireRoleCreate := accessHTTP.RequireCapability(
			evaluator, accessDomain.CapabilityCustomRoleCreate, accessDomain.AccessLevelFull, logger)
		requireRoleEdit := accessHTTP.RequireCapability(
			evaluator, accessDomain.CapabilityCustomRoleEdit, accessDomain.AccessLevelFull, logger)
		requireRoleDelete := accessHTTP.RequireCapability(
			evaluator, accessDomain.CapabilityCustomRoleDelete, accessDomain.AccessLevelFull, logger)

		v1 := router.Group("/v1")

		// The seed endpoint must work on an empty database, before any
		// identity or grant exists. It is guarded by the static seed token.
		v1.POST("/capabilities/seed", accessHTTP.SeedTokenMiddleware(seedToken, logger), capabilityHandler.SeedHandler)

		authenticated := v1.Group("")
		authenticated.Use(accessHTTP.IdentityMiddleware(logger))

		capabilities := authenticated.Group("/capabilities", requireCatalogView)
		capabilities.GET("", capabilityHandler.ListHandler)
		capabilities.GET("/categories", capabilityHandler.CategoriesHandler)
		capabilities.GET("/category/:category", capabilityHandler.ListByCategoryHandler)
		capabilities.GET("/search", capabilityHandler.SearchHandler)
		capabilities.GET("/user/:id", capabilityHandler.UserEffectiveHandler)
		capabilities.GET("/user/:id/check/:key", capabilityHandler.UserCheckHandler)
		capabilities.GET("/:key", capabilityHandler.GetHandler)

		templates := authenticated.Group("/templates", requireRoleView)
		templates.GET("", templateHandler.ListHandler)
		templates.GET("/:key", templateHandler.GetHandler)
		templates.POST("/preview", templateHandler.PreviewHandler)

		customRoles := authenticated.Group("/custom-roles")
		customRoles.GET("", requireRoleView, customRoleHandler.ListHandler)
		customRoles.POST("", requireRoleCreate, customRoleHandler.CreateHandler)
		customRoles.POST("/from-template", requireRoleCreate, customRoleHandler.CreateFromTemplatesHandler)
		customRoles.GET("/:id", requireRoleView, customRoleHandler.GetHandler)
		customRoles.PUT("/:id", requireRoleEdit, customRoleHandler.UpdateHandler)
		customRoles.DELETE("/:id", requireRoleDelete, customRoleHandler.DeleteHandler)
		customRoles.POST("/:id/clone", requireRoleCreate, customRoleHandler.CloneHandler)
		customRoles.GET("/:id/capabilities", requireRoleView, customRoleHandler.ListCapabilitiesHandler)
		customRoles.POST("/:id/capabilities", requireRoleEdit, customRoleHandler.AddCapabilityHandler)
		customRoles.POST("/:id/capabilities/bulk", requireRoleEdit, customRoleHandler.BulkCapabilitiesHandler)
		customRoles.DELETE("/:id/capabilities/:key", requireRoleEdit, customRoleHandler.RemoveCapabilityHandler)
		customRoles.GET("/:id/impact-analysis", requireRoleView, customRoleHandler.ImpactAnalysisHandler)
		customRoles.POST("/:id/save-as-template", requireRoleCreate, customRoleHandler.SaveAsTemplateHandler)
	}, nil
}
