/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/packagewjx/ds-toolbelt/internal/pipeline"
	"github.com/spf13/cobra"
)

var cleanFlags stageFlags

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "对原始数据去重、去除空白与无效行，仅保留需要的列",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(pipeline.NewCleaningFromFile, &cleanFlags)
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanFlags.bind(cleanCmd, "params/cleaning.yaml")
}
