// Package stylebot runs code style tools against a repository and
// pushes the fixes back as commits.
//
// A workflow file declares the target Python version, the tools to run
// (black, flake8), and how fixes are committed and pushed. The Engine
// executes that workflow as a linear pipeline: checkout, toolchain
// provisioning, tool installation, linting, then one commit per fixing
// tool and a single push. Violations the tools cannot repair fail the
// run, but only after every applied fix has been published.
//
// Basic usage:
//
//	engine, err := stylebot.New("stylebot.yml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	run, err := engine.Dispatch(ctx, "https://github.com/octo/repo", "main")
//
// The zero-configuration defaults shell out to git and a discovered
// Python interpreter; every external surface is replaceable through
// functional options for testing or alternative backends.
package stylebot
