package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/cache"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/config"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/repository"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/roster"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	mailChannel   *amqp.Channel
	snapshotCache *cache.SnapshotCache
	loader        *roster.Loader
	sessions      *roster.Manager

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, snapshotCache *cache.SnapshotCache) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		mailChannel:   mailCh,
		snapshotCache: snapshotCache,
		loader:        roster.NewLoader(repo, snapshotCache),
		sessions:      roster.NewManager(),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/staffs", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaffInfo) // 排班看板需要所有人的目录信息
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffInfo)
				r.Get("/", h.GetStaffInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateStaff)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateStaffPassword)
			})
		})

		r.Route("/roster", func(r chi.Router) {
			r.Get("/", h.GetRosterView)
			r.Get("/export", h.ExportRoster)
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleTeamLead}))
				r.Post("/assignments", h.AssignStaff)
				r.Post("/waiting", h.MoveToWaiting)
				r.Put("/status", h.UpdateDailyStatus)
				r.Put("/notes", h.PutDayNote)
				r.Delete("/notes", h.DeleteDayNote)
			})
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleTeamLead}))
			r.Post("/", h.CreateSnapshot)
			r.Get("/", h.GetAllSnapshots)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSnapshot)
				r.Put("/", h.SaveSnapshot)
				r.Delete("/", h.DeleteSnapshot)
			})
		})

		r.Route("/tabs", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleTeamLead}))
			r.Post("/", h.CreateTab)
			r.Get("/", h.GetAllTabs)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.tabInfo)
				r.Patch("/", h.UpdateTab)
				r.Delete("/", h.DeleteTab)
			})
		})
	})
}
