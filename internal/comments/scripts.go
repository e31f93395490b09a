package comments

import (
	"strings"
	"text/template"
)

// giscusRepoIDSuffix is appended to every configured giscus repo-id.
const giscusRepoIDSuffix = "MDEwOlJlcG9zaXRvcnkyOTEwNjgxODg="

const (
	utterancesClient = "https://utteranc.es/client.js"
	giscusClient     = "https://giscus.app/client.js"
)

const domReadySource = `var commentsRunWhenDOMLoaded = cb => {
    if (document.readyState != 'loading') {
        cb()
    } else if (document.addEventListener) {
        document.addEventListener('DOMContentLoaded', cb)
    } else {
        document.attachEvent('onreadystatechange', function() {
            if (document.readyState == 'complete') cb()
        })
    }
}
`

// Values are inserted with the js func so they stay inside their string
// literal and cannot close the surrounding script element.
const utterancesSource = domReadySource + `var addUtterances = () => {
    var script = document.createElement("script");
    script.type = "text/javascript";
    script.src = "{{.Client}}";
    script.async = "async";

    script.setAttribute("repo", "{{js .Repo}}");
    script.setAttribute("issue-term", "{{js .IssueTerm}}");
    script.setAttribute("theme", "{{js .Theme}}");
    script.setAttribute("label", "{{js .Label}}");
    script.setAttribute("crossorigin", "{{js .CrossOrigin}}");

    var sections = document.querySelectorAll("{{js .Selector}}");
    if (sections.length > 0) {
        var section = sections[sections.length-1];
        section.appendChild(script);
    }
}
commentsRunWhenDOMLoaded(addUtterances);
`

const giscusSource = domReadySource + `var addGiscus = () => {
    var script = document.createElement("script");
    script.type = "text/javascript";
    script.src = "{{.Client}}";
    script.async = "async";

    script.setAttribute("data-repo", "{{js .Repo}}");
    script.setAttribute("data-repo-id", "{{js .RepoID}}{{.RepoIDSuffix}}");
    script.setAttribute("data-theme", "{{js .Theme}}");
    script.setAttribute("data-category", "{{js .Category}}");
    script.setAttribute("data-category-id", "{{js .CategoryID}}");
    script.setAttribute("data-mapping", "{{js .IssueTerm}}");
    script.setAttribute("data-reactions-enabled", "{{js .ReactionsEnabled}}");
    script.setAttribute("crossorigin", "{{js .CrossOrigin}}");

    var sections = document.querySelectorAll("{{js .Selector}}");
    if (sections.length > 0) {
        var section = sections[sections.length-1];
        section.parentNode.appendChild(script);
    }
}
commentsRunWhenDOMLoaded(addGiscus);
`

var (
	utterancesTemplate = template.Must(template.New(ProviderUtterances).Parse(utterancesSource))
	giscusTemplate     = template.Must(template.New(ProviderGiscus).Parse(giscusSource))
)

// UtterancesScript renders the inline loader for the utterances widget.
func UtterancesScript(u Utterances) (string, error) {
	return render(utterancesTemplate, struct {
		Utterances
		Client string
	}{u, utterancesClient})
}

// GiscusScript renders the inline loader for the giscus widget.
func GiscusScript(g Giscus) (string, error) {
	return render(giscusTemplate, struct {
		Giscus
		Client       string
		RepoIDSuffix string
	}{g, giscusClient, giscusRepoIDSuffix})
}

func render(t *template.Template, data interface{}) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
