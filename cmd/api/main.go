package main

import (
	"aprcalc/cmd"
	"log"
)

func main() {
	deps, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	err = deps.ApiHandler.StartApi(deps.Config.Port)
	if err != nil {
		log.Fatal(err)
	}
}
