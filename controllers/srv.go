package controllers

import (
	"lending_register/app"
	"lending_register/db"
	"lending_register/session"
)

// Srv bundles the dependencies the controllers share.
type Srv struct {
	App  *app.App
	Repo *db.Repo
}

func GetSrv(a *app.App) *Srv { return &Srv{App: a, Repo: a.Repo} }

func (s *Srv) AppSessions() *session.AppSessionStore { return s.App.AppSessions() }
