package descriptor

import (
	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog/log"
)

// Revision returns the full HEAD commit hash of the repository containing
// root, or "" when there is no repository or no commits yet. Lookup is
// best-effort: every failure is swallowed and the revision label is
// simply omitted.
func Revision(root string) string {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		log.Debug().Err(err).Str("root", root).Msg("no git repository, omitting revision")
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		log.Debug().Err(err).Msg("no HEAD, omitting revision")
		return ""
	}
	return head.Hash().String()
}
