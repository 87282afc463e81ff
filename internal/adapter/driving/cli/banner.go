package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/arch-schedule-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
     _             _        ____       _              _       _
    / \   _ __ ___| |__    / ___|  ___| |__   ___  __| |_   _| | ___
   / _ \ | '__/ __| '_ \   \___ \ / __| '_ \ / _ \/ _` + "`" + ` | | | | |/ _ \
  / ___ \| | | (__| | | |   ___) | (__| | | |  __/ (_| | |_| | |  __/
 /_/   \_\_|  \___|_| |_|  |____/ \___|_| |_|\___|\__,_|\__,_|_|\___|
`
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(cyan(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Arch Schedule CLI (v%s)", formattedVersion)))
}

// checkLatestVersion verifica se uma versão mais recente está disponível.
func checkLatestVersion(currentVersion string) {
	version.CheckLatestVersion(currentVersion)
}
