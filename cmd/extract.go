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
	"github.com/packagewjx/ds-toolbelt/internal/config"
	"github.com/packagewjx/ds-toolbelt/internal/datasource"
	"github.com/packagewjx/ds-toolbelt/internal/pipeline"
	"github.com/spf13/cobra"
)

var extractParams string

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "从本地文件或数据库抽取原始数据",
	Long: "env为local时从data_dir读取各文件，env为prod时从配置的数据库读取。\n" +
		"列名统一规范为小写下划线形式后写入data_dir下的output_path。\n",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}

		params := pipeline.ExtractingParams{}
		if err := config.LoadParams(extractParams, &params); err != nil {
			return err
		}

		var tables pipeline.DataInteractor
		if params.Env == pipeline.EnvProd {
			table, err := datasource.NewTable(app.Table.Driver, app.Table.DSN)
			if err != nil {
				return err
			}
			tables = table
		}

		extracting, err := pipeline.NewExtracting(params, datasource.NewStatic(app.DataDir), tables)
		if err != nil {
			return err
		}
		return extracting.Execute()
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractParams, FlagParams, "p", "params/extracting.yaml",
		"参数文件路径")
}
