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

var preprocessFlags stageFlags

// preprocessCmd represents the preprocess command
var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "分箱、类别编码、特征计算、缺失值填充与缩放",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(pipeline.NewPreprocessingFromFile, &preprocessFlags)
	},
}

func init() {
	rootCmd.AddCommand(preprocessCmd)

	preprocessFlags.bind(preprocessCmd, "params/preprocessing.yaml")
}
