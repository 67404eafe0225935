package tasks_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Dhushyanthcpu/lib/foundation/tasks"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Registry(t *testing.T) {
	t.Log("Given the need to track background work.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen tasks succeed and fail.", testID)
		{
			reg := tasks.New()

			release := make(chan struct{})
			ok := reg.Run(func() (any, error) {
				<-release
				return 42, nil
			})

			if ok.Status != tasks.StatusPending {
				t.Fatalf("\t%s\tTest %d:\tShould start as pending, got %s.", failed, testID, ok.Status)
			}
			t.Logf("\t%s\tTest %d:\tShould start as pending.", success, testID)

			bad := reg.Run(func() (any, error) {
				return nil, errors.New("no pending transactions")
			})

			close(release)
			reg.Wait()

			task, err := reg.Get(ok.ID)
			if err != nil || task.Status != tasks.StatusCompleted || task.Result != 42 {
				t.Fatalf("\t%s\tTest %d:\tShould record the result: %+v %v", failed, testID, task, err)
			}
			t.Logf("\t%s\tTest %d:\tShould record the result.", success, testID)

			task, err = reg.Get(bad.ID)
			if err != nil || task.Status != tasks.StatusFailed || task.Error != "no pending transactions" {
				t.Fatalf("\t%s\tTest %d:\tShould record the failure: %+v %v", failed, testID, task, err)
			}
			t.Logf("\t%s\tTest %d:\tShould record the failure.", success, testID)

			if _, err := reg.Get("unknown"); !errors.Is(err, tasks.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould not find an unknown task: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not find an unknown task.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen finished tasks outlive the ttl.", testID)
		{
			reg := tasks.NewWithTTL(time.Millisecond)

			release := make(chan struct{})
			running := reg.Run(func() (any, error) {
				<-release
				return nil, nil
			})
			done := reg.Run(func() (any, error) {
				return "block", nil
			})

			time.Sleep(20 * time.Millisecond)

			if _, err := reg.Get(done.ID); !errors.Is(err, tasks.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould forget the finished task: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould forget the finished task.", success, testID)

			task, err := reg.Get(running.ID)
			if err != nil || task.Status != tasks.StatusPending {
				t.Fatalf("\t%s\tTest %d:\tShould keep the running task: %+v %v", failed, testID, task, err)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the running task.", success, testID)

			close(release)
			reg.Wait()
		}
	}
}
