package buildinfo

const ProjectName = "melodix"

const GithubURL = "https://github.com/melodix-games/melodix"

const Graffiti = `
  __  __      _           _ _
 |  \/  | ___| | ___   __| (_)_  __
 | |\/| |/ _ \ |/ _ \ / _` + "`" + ` | \ \/ /
 | |  | |  __/ | (_) | (_| | |>  <
 |_|  |_|\___|_|\___/ \__,_|_/_/\_\
`

const GreetingCLI = "%s version: %s\nsource: %s\n\n"
