package controllers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | DROPX</title></head>
<body data-page="{{.Name}}">
<h1>{{.Title}}</h1>
</body>
</html>
`))

type pageData struct {
	Name  string
	Title string
}

// Page serves the HTML shell of a client-rendered page
func Page(name, title string) gin.HandlerFunc {
	data := pageData{Name: name, Title: title}
	return func(c *gin.Context) {
		c.Render(http.StatusOK, render.HTML{Template: pageTemplate, Name: "page", Data: data})
	}
}
