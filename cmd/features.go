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

var featuresFlags stageFlags

// featuresCmd represents the features command
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "特征选择与构造",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(pipeline.NewFeatureEngineeringFromFile, &featuresFlags)
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)

	featuresFlags.bind(featuresCmd, "params/feature_engineering.yaml")
}
