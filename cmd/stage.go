package cmd

import (
	"log"

	"github.com/packagewjx/ds-toolbelt/internal/artifact"
	"github.com/packagewjx/ds-toolbelt/internal/datasource"
	"github.com/packagewjx/ds-toolbelt/internal/pipeline"
	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/spf13/cobra"
)

const FlagSaveModels = "save-models"

type stepConstructor func(paramsPath string, opts pipeline.Options) (*pipeline.Step, error)

// stageFlags 清洗、预处理、特征工程三个命令共用的参数
type stageFlags struct {
	params     string
	input      string
	output     string
	saveModels bool
}

func (f *stageFlags) bind(cmd *cobra.Command, defaultParams string) {
	cmd.Flags().StringVarP(&f.params, FlagParams, "p", defaultParams,
		"参数文件路径")
	cmd.Flags().StringVarP(&f.input, FlagInput, "i", "",
		"输入数据文件，相对于data_dir")
	cmd.Flags().StringVarP(&f.output, FlagOutput, "o", "",
		"输出数据文件，相对于data_dir")
	cmd.Flags().BoolVar(&f.saveModels, FlagSaveModels, false,
		"执行完成后将各Transformer的配置保存到models_dir")
	_ = cmd.MarkFlagRequired(FlagInput)
	_ = cmd.MarkFlagRequired(FlagOutput)
}

func runStage(newStep stepConstructor, f *stageFlags) error {
	app, err := loadApp()
	if err != nil {
		return err
	}

	step, err := newStep(f.params, pipeline.Options{
		InputPath:  f.input,
		OutputPath: f.output,
		Interactor: datasource.NewStatic(app.DataDir),
	})
	if err != nil {
		return err
	}
	if err = step.Execute(); err != nil {
		return err
	}

	if !f.saveModels {
		return nil
	}
	store := artifact.NewStore(app.ModelsDir)
	for _, t := range step.Transformers() {
		c, ok := t.(transform.Configurable)
		if !ok {
			continue
		}
		if err := store.Save(c); err != nil {
			return err
		}
	}
	log.Printf("%s的Transformer配置已保存到%s\n", step.Name(), app.ModelsDir)
	return nil
}
