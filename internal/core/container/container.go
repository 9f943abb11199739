package container

import (
	"database/sql"

	auditLogRepo "assetdesk/internal/auditlog"
	"assetdesk/internal/assignments"
	"assetdesk/internal/employees"
	"assetdesk/internal/inventory/assets"
	"assetdesk/internal/repository"
	"assetdesk/pkg/auditlog"

	"go.uber.org/zap"
)

type Container struct {
	Repository        *repository.Repository
	AuditLog          *auditlog.Auditlog
	AssetService      *assets.AssetService
	AssignmentService *assignments.AssignmentService
	AssetHandler      *assets.AssetHandler
	EmployeeHandler   *employees.EmployeesHandler
	AssignmentHandler *assignments.AssignmentHandler
	HistoryHandler    *auditLogRepo.HistoryHandler
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	historyRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(historyRepo, log.Named("auditlog"))

	assetRepo := assets.NewRepository(repo)
	lifecycle := assets.NewLifecycle(assetRepo)
	assetService := assets.NewAssetService(repo, assetRepo, lifecycle, auditLog, log.Named("assets"))

	employeeRepo := employees.NewRepository(repo)

	assignmentRepo := assignments.NewRepository(repo)
	assignmentService := assignments.NewAssignmentService(
		repo,
		assetRepo,
		employeeRepo,
		assignmentRepo,
		lifecycle,
		auditLog,
		log.Named("assignments"),
	)

	return &Container{
		Repository:        repo,
		AuditLog:          auditLog,
		AssetService:      assetService,
		AssignmentService: assignmentService,
		AssetHandler:      assets.NewAssetHandler(assetService),
		EmployeeHandler:   employees.NewHandler(employeeRepo, log.Named("employees")),
		AssignmentHandler: assignments.NewAssignmentHandler(assignmentService),
		HistoryHandler:    auditLogRepo.NewHistoryHandler(historyRepo),
	}
}
