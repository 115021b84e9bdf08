package render

const publicationsTemplate = `{{define "venue"}}{{if .Journal}}{{.Journal}}{{with .Volume}} <strong>{{.}}</strong>{{end}}{{with .Year}} ({{.}}){{end}}{{with .Page}}, {{.}}{{end}}{{else}}{{.Label}}{{end}}{{end}}
{{define "authors"}}{{range $i, $a := .Authors}}{{if $i}}, {{end}}{{if $a.Self}}<u>{{$a.Name}}</u>{{else}}{{$a.Name}}{{end}}{{end}}{{if .EtAl}} et al.{{end}}{{with .Collaboration}} ({{.}} Collaboration){{end}}{{end}}
{{define "publications"}}<ol class="publications">
{{range .}}{{$id := abstractID .ID}}<li class="publication" data-inspire-id="{{.ID}}">
<p>
{{if .Abstract}}<input type="checkbox" id="{{$id}}" class="sidenote-toggle abstract-checkbox"><span class="sidenote abstract-content"><strong>Abstract:</strong> {{sanitize .Abstract}} <label for="{{$id}}" class="abstract-close">[Close]</label></span><label for="{{$id}}" class="sidenote-backdrop"></label>
{{end}}<strong class="title">{{.Title}}</strong><br>
<span class="authors">{{template "authors" .}}</span><br>
<em class="venue">{{template "venue" .Venue}}</em><br>
<span class="links">{{range $i, $l := .Links}}{{if $i}} {{end}}{{if eq $l.Kind "abstract"}}<label for="{{$id}}" class="sidenote-toggle abstract-toggle">[{{$l.Label}}]</label>{{else if eq $l.Kind "citations"}}<span class="citation-count" title="Citations">({{$l.Label}})</span>{{else}}<a href="{{$l.URL}}">[{{$l.Label}}]</a>{{end}}{{end}}</span>
</p>
</li>
{{end}}</ol>
{{end}}`

const talksTemplate = `{{define "talks"}}<ul class="talks">
{{range .}}<li class="talk" data-key="{{.Key}}">
<p>
<strong class="title">{{.CleanTitle}}</strong>{{if .Category}} <span class="talk-category" style="{{categoryStyle .Category}}">[{{.Category}}]</span>{{end}}<br>
{{.Event}}<br>
{{with .Month}}{{.}} {{end}}{{.Year}}.
{{- if or .Slides .URL}}<br>{{with .Slides}}<a href="{{.}}">[Slides]</a>{{end}}{{if and .Slides .URL}} {{end}}{{with .URL}}<a href="{{.}}">[URL]</a>{{end}}{{end}}
</p>
</li>
{{end}}</ul>
{{end}}`

const cvTemplate = `{{define "cv-map"}}<h3>{{.Title}}</h3>
<table class="cv-map borders-custom"><tbody>
{{range .Map}}<tr><td class="cv-name"><strong>{{.Name}}</strong></td><td>{{.Value}}</td></tr>
{{end}}</tbody></table>
{{end}}
{{define "cv-time-table"}}<table class="cv-time-table">
{{with .Title}}<caption>{{.}}</caption>
{{end}}<thead><tr><th scope="col">Year</th><th scope="col">Description</th></tr></thead>
<tbody>
{{range .Timeline}}<tr><td class="cv-year">{{.Year}}</td><td>
{{- if .Items}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
{{- else}}{{with .Title}}<strong>{{sanitize .}}</strong>{{end}}{{with .Institution}}<br>{{sanitize .}}{{end}}{{with .Department}}<br>{{sanitize .}}{{end}}{{with .Location}}, {{sanitize .}}{{end}}{{with .MainDescription}}<br><em>{{sanitize (join .)}}</em>{{end}}{{with .Description}}<br><small>{{sanitize (join .)}}</small>{{end}}{{end -}}
</td></tr>
{{end}}</tbody>
</table>
{{end}}
{{define "cv-nested-list"}}<h3>{{.Title}}</h3>
<div class="cv-nested-list">
{{range .Groups}}<p><strong>{{.Title}}</strong></p>
{{if .Items}}<ul>{{range .Items}}<li>{{sanitize .}}</li>{{end}}</ul>
{{end}}{{end}}</div>
{{end}}
{{define "cv-list"}}<h3>{{.Title}}</h3>
<ul class="cv-list">{{range .Items}}<li>{{sanitize .}}</li>{{end}}</ul>
{{end}}
{{define "cv"}}<div class="cv">
{{range .}}{{if eq .Type "map"}}{{template "cv-map" .}}{{else if eq .Type "time_table"}}{{template "cv-time-table" .}}{{else if eq .Type "nested_list"}}{{template "cv-nested-list" .}}{{else if eq .Type "list"}}{{template "cv-list" .}}{{end}}{{end}}</div>
{{end}}`

const contactTemplate = `{{define "contact"}}<ul class="contact-list">
{{range .}}<li class="contact-item"><a href="{{.URL}}" title="{{.Label}}"><span class="contact-icon icon-{{.Icon}}" aria-hidden="true"></span><span class="contact-label">{{.Label}}</span></a></li>
{{end}}</ul>
{{end}}`

const noticeTemplate = `{{define "notice"}}<p class="notice notice-{{.Kind}}">{{.Message}}</p>
{{end}}`
